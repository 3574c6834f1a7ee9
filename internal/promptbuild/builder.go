package promptbuild

import (
	"path/filepath"

	"github.com/kayz/promptbuilder/internal/config"
	"github.com/kayz/promptbuilder/internal/logger"
)

// Builder resolves templates, assembles prompts and records them in the audit trail.
type Builder struct {
	cfg config.PromptBuildConfig
}

// NewBuilder creates a new Builder from config.
func NewBuilder(cfg config.PromptBuildConfig) *Builder {
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "templates"
	}
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = DefaultTemplateName
	}
	return &Builder{cfg: cfg}
}

// Build assembles a prompt and returns the final text with the rendered section titles.
func (b *Builder) Build(req BuildRequest) (Result, error) {
	tmpl, err := b.Template(req.Template)
	if err != nil {
		return Result{}, err
	}

	doc, sections, err := tmpl.render(req.Request)
	if err != nil {
		logger.Debug("Prompt not built with template %s: %v", tmpl.Name, err)
		return Result{}, err
	}

	res := Result{
		Prompt:   doc,
		Template: tmpl.Name,
		Sections: sectionTitles(sections),
	}
	logger.Debug("Built prompt with template %s: %d sections, %d bytes", res.Template, len(sections), len(doc))

	if err := b.writeAuditRecord(req, res); err != nil {
		logger.Warn("Prompt audit record failed: %v", err)
	}
	return res, nil
}

func (b *Builder) resolveTemplatePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.cfg.RootDir, b.cfg.TemplatesDir, p)
}

func (b *Builder) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.cfg.RootDir, p)
}
