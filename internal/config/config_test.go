package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPathReadsPromptBuildSection(t *testing.T) {
	t.Setenv("PROMPTBUILDER_TEMPLATE", "")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".promptbuilder.yaml")
	content := `logging:
  level: debug
promptbuild:
  templates_dir: "my-templates"
  default_template: classic
  history_limit: 5
  audit_enabled: true
  audit_retention_days: 3
web:
  port: 9090
  session_ttl: 30m
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %q", cfg.Logging.Level)
	}
	if cfg.PromptBuild.TemplatesDir != "my-templates" || cfg.PromptBuild.DefaultTemplate != "classic" {
		t.Fatalf("unexpected promptbuild config: %#v", cfg.PromptBuild)
	}
	if !cfg.PromptBuild.AuditEnabled || cfg.PromptBuild.AuditRetentionDays != 3 {
		t.Fatalf("unexpected audit settings: %#v", cfg.PromptBuild)
	}
	// untouched keys keep their defaults
	if cfg.PromptBuild.AuditFilePrefix != "promptbuild" {
		t.Fatalf("expected default audit prefix, got %q", cfg.PromptBuild.AuditFilePrefix)
	}
	if cfg.Web.Port != 9090 || cfg.Web.SessionTTLDuration() != 30*time.Minute {
		t.Fatalf("unexpected web config: %#v", cfg.Web)
	}
}

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PROMPTBUILDER_TEMPLATE", "")
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PromptBuild.DefaultTemplate != "default" || cfg.Web.Port != 18080 {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTBUILDER_TEMPLATE", "classic")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PromptBuild.DefaultTemplate != "classic" {
		t.Fatalf("expected env template override, got %q", cfg.PromptBuild.DefaultTemplate)
	}
	if cfg.AI.APIKey != "sk-env" {
		t.Fatalf("expected env api key, got %q", cfg.AI.APIKey)
	}
}

func TestSessionTTLFallback(t *testing.T) {
	if got := (WebConfig{SessionTTL: "soon"}).SessionTTLDuration(); got != 2*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", got)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Setenv("PROMPTBUILDER_TEMPLATE", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.PromptBuild.DefaultTemplate = "classic"
	cfg.Web.Port = 9191
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if loaded.PromptBuild.DefaultTemplate != "classic" || loaded.Web.Port != 9191 {
		t.Fatalf("unexpected round trip: %#v", loaded)
	}
}
