package promptbuild

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var auditMu sync.Mutex

type auditRecord struct {
	Timestamp     string   `json:"timestamp"`
	RequestDigest string   `json:"request_digest"`
	Template      string   `json:"template"`
	FinalPrompt   string   `json:"final_prompt"`
	Sections      []string `json:"sections"`
}

func (b *Builder) writeAuditRecord(req BuildRequest, res Result) error {
	return b.writeAuditRecordWithNow(req, res, time.Now())
}

func (b *Builder) writeAuditRecordWithNow(req BuildRequest, res Result, now time.Time) error {
	if !b.cfg.AuditEnabled {
		return nil
	}

	auditDir := b.resolvePath(b.auditDir())
	if err := os.MkdirAll(auditDir, 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	prefix := b.auditPrefix()
	fileName := fmt.Sprintf("%s-%s.jsonl", prefix, now.Format("2006-01-02"))
	filePath := filepath.Join(auditDir, fileName)

	record := auditRecord{
		Timestamp:     now.Format(time.RFC3339),
		RequestDigest: buildRequestDigest(req),
		Template:      res.Template,
		FinalPrompt:   res.Prompt,
		Sections:      res.Sections,
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if err := appendJSONL(filePath, line); err != nil {
		return err
	}

	if err := b.cleanupOldAuditFilesWithNow(now); err != nil {
		return err
	}

	return nil
}

func appendJSONL(filePath string, line []byte) error {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}

// CleanupOldAuditFiles removes audit files older than the retention window.
func (b *Builder) CleanupOldAuditFiles() error {
	auditMu.Lock()
	defer auditMu.Unlock()
	return b.cleanupOldAuditFilesWithNow(time.Now())
}

func (b *Builder) cleanupOldAuditFilesWithNow(now time.Time) error {
	if !b.cfg.AuditEnabled || b.cfg.AuditRetentionDays <= 0 {
		return nil
	}

	auditDir := b.resolvePath(b.auditDir())
	entries, err := os.ReadDir(auditDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list audit dir: %w", err)
	}

	prefix := b.auditPrefix()
	cutoff := now.AddDate(0, 0, -b.cfg.AuditRetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".jsonl") {
			continue
		}

		filePath := filepath.Join(auditDir, name)
		fileDate, ok := parseAuditDate(name, prefix)
		if ok {
			if fileDate.Before(startOfDay(cutoff)) {
				if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove old audit file %s: %w", filePath, err)
				}
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat audit file %s: %w", filePath, err)
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove old audit file %s: %w", filePath, err)
			}
		}
	}

	return nil
}

func (b *Builder) auditDir() string {
	if dir := strings.TrimSpace(b.cfg.AuditDir); dir != "" {
		return dir
	}
	return filepath.Join(".promptbuilder", "audit")
}

func (b *Builder) auditPrefix() string {
	if prefix := strings.TrimSpace(b.cfg.AuditFilePrefix); prefix != "" {
		return prefix
	}
	return "promptbuild"
}

func parseAuditDate(filename, prefix string) (time.Time, bool) {
	raw := strings.TrimSuffix(filename, ".jsonl")
	raw = strings.TrimPrefix(raw, prefix+"-")
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sectionTitles(sections []section) []string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		title := strings.TrimSpace(s.title)
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

// buildRequestDigest is the hex sha256 of the JSON-encoded request.
func buildRequestDigest(req BuildRequest) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
