package promptbuild

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var templateNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Template resolves a template by name. A file <templates_dir>/<name>.yaml wins over a
// built-in of the same name; blank settings in the file are inherited from that built-in
// (or from the default template).
func (b *Builder) Template(name string) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = b.cfg.DefaultTemplate
	}
	if name == "" {
		name = DefaultTemplateName
	}
	if !templateNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrUnknownTemplate, name)
	}

	fullPath := b.resolveTemplatePath(name + ".yaml")
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read template file %s: %w", fullPath, err)
		}
		if tmpl, ok := BuiltinTemplate(name); ok {
			return tmpl, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	tmpl, err := parseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("template file %s: %w", fullPath, err)
	}
	if tmpl.Name != name {
		return nil, fmt.Errorf("template file %s declares name %q", fullPath, tmpl.Name)
	}

	base, ok := builtinTemplates[name]
	if !ok {
		base = builtinTemplates[DefaultTemplateName]
	}
	merged := tmpl.withDefaults(base)
	return &merged, nil
}

// Templates lists built-in names plus the names of *.yaml files in the templates dir.
func (b *Builder) Templates() ([]string, error) {
	seen := make(map[string]struct{})
	for _, name := range BuiltinTemplateNames() {
		seen[name] = struct{}{}
	}

	dir := b.resolvePath(b.cfg.TemplatesDir)
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list templates dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		if templateNamePattern.MatchString(name) {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ParseTemplate decodes and validates a YAML template.
func ParseTemplate(data []byte) (*Template, error) {
	return parseTemplate(data)
}

func parseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if err := validateTemplate(&tmpl); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return &tmpl, nil
}

func validateTemplate(t *Template) error {
	if t == nil {
		return fmt.Errorf("template is nil")
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !templateNamePattern.MatchString(name) {
		return fmt.Errorf("name %q may only contain letters, digits, '-' and '_'", name)
	}

	switch t.Style {
	case "", StyleHeadings, StyleLabels, StylePlain:
	default:
		return fmt.Errorf("unsupported style: %s", t.Style)
	}

	if t.Separator != "" && !strings.Contains(t.Separator, "\n\n") {
		return fmt.Errorf("separator must contain a blank line")
	}
	if t.ClarifyingQuestions != nil && *t.ClarifyingQuestions < 0 {
		return fmt.Errorf("clarifying_questions must not be negative")
	}

	if len(t.Presets) > 0 {
		// request presets are matched lowercased
		presets := make(map[string]string, len(t.Presets))
		for key, text := range t.Presets {
			norm := strings.ToLower(strings.TrimSpace(key))
			if norm == "" {
				return fmt.Errorf("preset key is required")
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("preset %s text is required", key)
			}
			if _, dup := presets[norm]; dup {
				return fmt.Errorf("preset %s is defined more than once", norm)
			}
			presets[norm] = text
		}
		t.Presets = presets
	}
	for _, rule := range t.FormatRules {
		if strings.TrimSpace(rule) == "" {
			return fmt.Errorf("format_rules must not contain blank entries")
		}
	}
	return nil
}
