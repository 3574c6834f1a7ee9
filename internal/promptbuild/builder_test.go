package promptbuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/promptbuilder/internal/config"
)

func configForTest(root string) config.PromptBuildConfig {
	return config.PromptBuildConfig{
		RootDir:            root,
		TemplatesDir:       "templates",
		DefaultTemplate:    DefaultTemplateName,
		AuditEnabled:       false,
		AuditDir:           ".promptbuilder/audit",
		AuditRetentionDays: 7,
		AuditFilePrefix:    "promptbuild",
	}
}

func writeTemplate(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "templates")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestBuildWithBuiltinTemplate(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))
	res, err := b.Build(BuildRequest{
		Request: Request{
			Goal:    "Summarize the meeting",
			Context: "Weekly sync",
		},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Template != DefaultTemplateName {
		t.Fatalf("expected default template, got %q", res.Template)
	}
	wantSections := []string{"Goal", "Context"}
	if strings.Join(res.Sections, ",") != strings.Join(wantSections, ",") {
		t.Fatalf("expected sections %v, got %v", wantSections, res.Sections)
	}
	if !strings.HasPrefix(res.Prompt, "### Goal\n\nSummarize the meeting") {
		t.Fatalf("unexpected prompt: %s", res.Prompt)
	}
}

func TestBuildUsesConfiguredDefaultTemplate(t *testing.T) {
	cfg := configForTest(t.TempDir())
	cfg.DefaultTemplate = "classic"
	b := NewBuilder(cfg)

	res, err := b.Build(BuildRequest{Request: Request{Goal: "Obiettivo di prova"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Template != "classic" || !strings.HasPrefix(res.Prompt, "OBIETTIVO:\nObiettivo di prova") {
		t.Fatalf("expected classic rendering, got %q: %s", res.Template, res.Prompt)
	}
}

func TestBuildMissingGoal(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))
	res, err := b.Build(BuildRequest{Request: Request{Tone: "Friendly"}})
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if res.Prompt != "" {
		t.Fatalf("expected no prompt, got %q", res.Prompt)
	}
}

func TestBuildUnknownTemplate(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))
	_, err := b.Build(BuildRequest{Template: "nope", Request: Request{Goal: "G"}})
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}

	_, err = b.Build(BuildRequest{Template: "../etc/passwd", Request: Request{Goal: "G"}})
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate for path-like name, got %v", err)
	}
}

func TestBuildWithTemplateFile(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "brief", `name: brief
description: short labels
style: labels
separator: "\n\n===\n\n"
labels:
  goal: Task
clarifying_questions: 1
presets:
  review: You review pull requests.
`)

	b := NewBuilder(configForTest(dir))
	res, err := b.Build(BuildRequest{
		Template: "brief",
		Request:  Request{Goal: "Check the diff", Preset: "review", Audience: "maintainers"},
	})
	if err != nil {
		t.Fatalf("Build with template file failed: %v", err)
	}

	want := strings.Join([]string{
		"ROLE:\nYou review pull requests.",
		"STYLE:\nAudience: maintainers.",
		"TASK:\nCheck the diff",
		"Ask up to 1 clarifying questions only if critical information is missing; otherwise proceed with explicit assumptions.",
	}, "\n\n===\n\n")
	if res.Prompt != want {
		t.Fatalf("unexpected prompt:\n%s\nwant:\n%s", res.Prompt, want)
	}
}

func TestTemplateFileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "classic", `name: classic
labels:
  goal: Scopo
`)

	b := NewBuilder(configForTest(dir))
	tmpl, err := b.Template("classic")
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if tmpl.Labels.Goal != "Scopo" {
		t.Fatalf("expected overridden goal label, got %q", tmpl.Labels.Goal)
	}
	// remaining settings come from the built-in classic template
	if tmpl.Style != StyleLabels || tmpl.Labels.Context != "Contesto" {
		t.Fatalf("expected classic defaults, got style=%q context=%q", tmpl.Style, tmpl.Labels.Context)
	}
}

func TestTemplatesListsBuiltinsAndFiles(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "zeta", "name: zeta\n")
	if err := os.WriteFile(filepath.Join(dir, "templates", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	b := NewBuilder(configForTest(dir))
	names, err := b.Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	if got := strings.Join(names, ","); got != "classic,default,zeta" {
		t.Fatalf("unexpected template names: %s", got)
	}
}

func TestTemplateFileKeepsZeroQuestions(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "noq", "name: noq\nclarifying_questions: 0\n")
	writeTemplate(t, dir, "inherit", "name: inherit\n")

	b := NewBuilder(configForTest(dir))
	res, err := b.Build(BuildRequest{Template: "noq", Request: Request{Goal: "G"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(res.Prompt, "Ask up to 0 clarifying questions") {
		t.Fatalf("expected zero questions from template file, got:\n%s", res.Prompt)
	}

	res, err = b.Build(BuildRequest{Template: "inherit", Request: Request{Goal: "G"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(res.Prompt, "Ask up to 3 clarifying questions") {
		t.Fatalf("expected inherited question count, got:\n%s", res.Prompt)
	}
}

func TestTemplateFilePresetKeysAreCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "mixed", "name: mixed\npresets:\n  Chat: You are a friendly assistant.\n")

	b := NewBuilder(configForTest(dir))
	for _, preset := range []string{"chat", "Chat", "CHAT"} {
		res, err := b.Build(BuildRequest{Template: "mixed", Request: Request{Goal: "G", Preset: preset}})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !strings.Contains(res.Prompt, "### Role\n\nYou are a friendly assistant.") {
			t.Fatalf("preset %q: expected role from mixed-case key, got:\n%s", preset, res.Prompt)
		}
	}
}
