package promptbuild

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request holds the user-supplied fields rendered into a prompt.
type Request struct {
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
	// Preset selects a template role sentence when Role is blank.
	Preset   string `json:"preset,omitempty" yaml:"preset,omitempty"`
	Goal     string `json:"goal,omitempty" yaml:"goal,omitempty"`
	Context  string `json:"context,omitempty" yaml:"context,omitempty"`
	Inputs   string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Audience string `json:"audience,omitempty" yaml:"audience,omitempty"`
	Tone     string `json:"tone,omitempty" yaml:"tone,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	MustInclude []string `json:"must_include,omitempty" yaml:"must_include,omitempty"`
	MustAvoid   []string `json:"must_avoid,omitempty" yaml:"must_avoid,omitempty"`

	OutputFormat        string `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	Length              string `json:"length,omitempty" yaml:"length,omitempty"`
	Examples            string `json:"examples,omitempty" yaml:"examples,omitempty"`
	EvaluationChecklist string `json:"evaluation_checklist,omitempty" yaml:"evaluation_checklist,omitempty"`

	// FormatRules appends the template's fixed response-format rules to the output section.
	FormatRules bool `json:"format_rules,omitempty" yaml:"format_rules,omitempty"`
}

// BuildRequest is a Request plus the name of the template to render it with.
type BuildRequest struct {
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Request  `yaml:",inline"`
}

// Result is the output of Builder.Build.
type Result struct {
	Prompt   string   `json:"prompt"`
	Template string   `json:"template"`
	Sections []string `json:"sections"`
}

// Entry is one generated document kept in a Session.
type Entry struct {
	ID        string    `json:"id"`
	Template  string    `json:"template"`
	Prompt    string    `json:"prompt"`
	Sections  []string  `json:"sections,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry wraps a build result for session history.
func NewEntry(res Result) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Template:  res.Template,
		Prompt:    res.Prompt,
		Sections:  append([]string(nil), res.Sections...),
		CreatedAt: time.Now().UTC(),
	}
}

// SplitLines turns multi-line form text into list entries. Blank lines are dropped and
// a leading bullet marker ("-", "*", "•") is stripped.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
