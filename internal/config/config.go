package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	PromptBuild PromptBuildConfig `yaml:"promptbuild"`
	Web         WebConfig         `yaml:"web,omitempty"`
	AI          AIConfig          `yaml:"ai,omitempty"`
}

// PromptBuildConfig configures template lookup, history and the audit trail.
type PromptBuildConfig struct {
	RootDir         string `yaml:"root_dir,omitempty"`
	TemplatesDir    string `yaml:"templates_dir,omitempty"`
	DefaultTemplate string `yaml:"default_template,omitempty"`
	// HistoryLimit caps entries kept per session; 0 keeps everything.
	HistoryLimit int `yaml:"history_limit,omitempty"`

	AuditEnabled       bool   `yaml:"audit_enabled"`
	AuditDir           string `yaml:"audit_dir,omitempty"`
	AuditRetentionDays int    `yaml:"audit_retention_days,omitempty"`
	AuditFilePrefix    string `yaml:"audit_file_prefix,omitempty"`
}

// WebConfig configures the web UI server.
type WebConfig struct {
	Port int `yaml:"port,omitempty"`
	// SessionTTL is how long an idle browser session keeps its history, e.g. "2h".
	SessionTTL string `yaml:"session_ttl,omitempty"`
	// AuditCleanupSchedule is a cron spec for audit retention, e.g. "@daily".
	AuditCleanupSchedule string `yaml:"audit_cleanup_schedule,omitempty"`
}

// SessionTTLDuration parses SessionTTL, falling back to two hours.
func (w WebConfig) SessionTTLDuration() time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(w.SessionTTL)); err == nil && d > 0 {
		return d
	}
	return 2 * time.Hour
}

type AIConfig struct {
	Provider  string `yaml:"provider,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		PromptBuild: PromptBuildConfig{
			RootDir:            ".",
			TemplatesDir:       "templates",
			DefaultTemplate:    "default",
			HistoryLimit:       50,
			AuditEnabled:       false,
			AuditDir:           ".promptbuilder/audit",
			AuditRetentionDays: 7,
			AuditFilePrefix:    "promptbuild",
		},
		Web: WebConfig{
			Port:                 18080,
			SessionTTL:           "2h",
			AuditCleanupSchedule: "@daily",
		},
		AI: AIConfig{
			Provider: "openai",
		},
	}
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".promptbuilder.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads the config at path on top of the defaults. A missing file yields
// the defaults. Environment overrides are applied last.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PROMPTBUILDER_TEMPLATE")); v != "" {
		cfg.PromptBuild.DefaultTemplate = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" && cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = v
	}
}

// SaveTo writes the config as YAML to path, creating the parent directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
