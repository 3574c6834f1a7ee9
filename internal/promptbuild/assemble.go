package promptbuild

import (
	"strconv"
	"strings"
)

// Assemble renders req with the built-in default template.
func Assemble(req Request) (string, error) {
	return DefaultTemplate().Assemble(req)
}

// Assemble renders req into a prompt. It is a pure function of the template and the
// request. A blank goal yields an empty document and a *MissingFieldError.
func (t *Template) Assemble(req Request) (string, error) {
	doc, _, err := t.render(req)
	return doc, err
}

type section struct {
	title   string
	content string
}

func (t *Template) render(req Request) (string, []section, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return "", nil, &MissingFieldError{Field: "goal"}
	}

	tt := t.withDefaults(builtinTemplates[DefaultTemplateName])
	l := tt.Labels

	var sections []section
	sections = appendSection(sections, l.Role, tt.roleText(req))
	sections = appendSection(sections, l.Style, tt.styleLine(req))
	sections = appendSection(sections, l.Goal, goal)
	sections = appendSection(sections, l.Context, req.Context)
	sections = appendSection(sections, l.Inputs, req.Inputs)
	sections = appendSection(sections, l.Constraints, bulletList(req.Constraints))
	sections = appendSection(sections, l.MustInclude, bulletList(req.MustInclude))
	sections = appendSection(sections, l.MustAvoid, bulletList(req.MustAvoid))
	sections = appendSection(sections, l.Output, tt.outputText(req))
	sections = appendSection(sections, l.Examples, req.Examples)
	sections = appendSection(sections, l.Checklist, req.EvaluationChecklist)
	sections = appendSection(sections, l.Closing, tt.withQuestions(tt.Closing))

	return renderSections(sections, tt.Style, tt.Separator), sections, nil
}

func appendSection(list []section, title, content string) []section {
	content = strings.TrimSpace(content)
	if content == "" {
		return list
	}
	return append(list, section{title: strings.TrimSpace(title), content: content})
}

func renderSections(sections []section, style, separator string) string {
	var out strings.Builder
	for i, s := range sections {
		if i > 0 {
			out.WriteString(separator)
		}
		if s.title != "" {
			switch style {
			case StyleLabels:
				out.WriteString(strings.ToUpper(s.title))
				out.WriteString(":\n")
			case StylePlain:
			default:
				out.WriteString("### ")
				out.WriteString(s.title)
				out.WriteString("\n\n")
			}
		}
		out.WriteString(s.content)
	}
	return strings.TrimSpace(out.String())
}

func (t Template) roleText(req Request) string {
	if role := strings.TrimSpace(req.Role); role != "" {
		return role
	}
	preset := strings.ToLower(strings.TrimSpace(req.Preset))
	if preset == "" {
		return ""
	}
	return t.Presets[preset]
}

// styleLine renders "Language: x. Tone: y. Audience: z." skipping blank parts.
func (t Template) styleLine(req Request) string {
	var parts []string
	add := func(label, value string) {
		value = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(value), "."))
		if value == "" {
			return
		}
		parts = append(parts, label+": "+value+".")
	}
	add(t.StyleLine.Language, req.Language)
	add(t.StyleLine.Tone, req.Tone)
	add(t.StyleLine.Audience, req.Audience)
	return strings.Join(parts, " ")
}

func (t Template) outputText(req Request) string {
	var lines []string
	if format := strings.TrimSpace(req.OutputFormat); format != "" {
		lines = append(lines, t.StyleLine.Format+": "+format)
	}
	if length := t.lengthText(req.Length); length != "" {
		lines = append(lines, t.StyleLine.Length+": "+length)
	}
	if req.FormatRules {
		rules := make([]string, 0, len(t.FormatRules))
		for _, r := range t.FormatRules {
			rules = append(rules, t.withQuestions(r))
		}
		if list := bulletList(rules); list != "" {
			lines = append(lines, list)
		}
	}
	return strings.Join(lines, "\n")
}

// lengthText maps short/medium/long to template wording; other values pass through.
func (t Template) lengthText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if mapped, ok := t.Lengths[strings.ToLower(raw)]; ok && strings.TrimSpace(mapped) != "" {
		return mapped
	}
	return raw
}

func (t Template) withQuestions(text string) string {
	n := defaultClarifyingQuestions
	if t.ClarifyingQuestions != nil {
		n = *t.ClarifyingQuestions
	}
	return strings.ReplaceAll(text, questionsPlaceholder, strconv.Itoa(n))
}

// bulletList renders one "- " line per entry. Entries spanning several lines are
// flattened so every output line stays a bullet.
func bulletList(items []string) string {
	var out strings.Builder
	for _, item := range items {
		item = strings.Join(strings.Fields(item), " ")
		if item == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("- ")
		out.WriteString(item)
	}
	return out.String()
}
