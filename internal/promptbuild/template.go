package promptbuild

import (
	"sort"
	"strings"
)

// Rendering styles for section titles.
const (
	StyleHeadings = "headings" // "### Goal"
	StyleLabels   = "labels"   // "GOAL:"
	StylePlain    = "plain"    // no titles
)

const (
	DefaultTemplateName = "default"

	questionsPlaceholder       = "{questions}"
	defaultClarifyingQuestions = 3
)

// Template is the configuration record that decides how a Request is rendered:
// section titles, wording of the style and output lines, role presets and the
// closing instruction.
type Template struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Style       string `yaml:"style,omitempty" json:"style,omitempty"`
	Separator   string `yaml:"separator,omitempty" json:"separator,omitempty"`

	Labels    Labels            `yaml:"labels,omitempty" json:"labels,omitempty"`
	StyleLine StyleLineWords    `yaml:"style_line,omitempty" json:"style_line,omitempty"`
	Lengths   map[string]string `yaml:"lengths,omitempty" json:"lengths,omitempty"`
	Presets   map[string]string `yaml:"presets,omitempty" json:"presets,omitempty"`

	FormatRules []string `yaml:"format_rules,omitempty" json:"format_rules,omitempty"`
	// Closing may contain {questions}, replaced by ClarifyingQuestions.
	Closing string `yaml:"closing,omitempty" json:"closing,omitempty"`
	// ClarifyingQuestions is inherited when nil; an explicit 0 is kept.
	ClarifyingQuestions *int `yaml:"clarifying_questions,omitempty" json:"clarifying_questions,omitempty"`
}

// Labels are the section titles.
type Labels struct {
	Role        string `yaml:"role,omitempty" json:"role,omitempty"`
	Style       string `yaml:"style,omitempty" json:"style,omitempty"`
	Goal        string `yaml:"goal,omitempty" json:"goal,omitempty"`
	Context     string `yaml:"context,omitempty" json:"context,omitempty"`
	Inputs      string `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Constraints string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	MustInclude string `yaml:"must_include,omitempty" json:"must_include,omitempty"`
	MustAvoid   string `yaml:"must_avoid,omitempty" json:"must_avoid,omitempty"`
	Output      string `yaml:"output,omitempty" json:"output,omitempty"`
	Examples    string `yaml:"examples,omitempty" json:"examples,omitempty"`
	Checklist   string `yaml:"checklist,omitempty" json:"checklist,omitempty"`
	Closing     string `yaml:"closing,omitempty" json:"closing,omitempty"`
}

// StyleLineWords are the inline labels used inside the style and output sections.
type StyleLineWords struct {
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Tone     string `yaml:"tone,omitempty" json:"tone,omitempty"`
	Audience string `yaml:"audience,omitempty" json:"audience,omitempty"`
	Format   string `yaml:"format,omitempty" json:"format,omitempty"`
	Length   string `yaml:"length,omitempty" json:"length,omitempty"`
}

var builtinTemplates = map[string]Template{
	DefaultTemplateName: {
		Name:        DefaultTemplateName,
		Description: "English markdown headings",
		Style:       StyleHeadings,
		Separator:   "\n\n",
		Labels: Labels{
			Role:        "Role",
			Style:       "Style",
			Goal:        "Goal",
			Context:     "Context",
			Inputs:      "Input data",
			Constraints: "Constraints",
			MustInclude: "Must include",
			MustAvoid:   "Must avoid",
			Output:      "Output",
			Examples:    "Examples",
			Checklist:   "Evaluation checklist",
		},
		StyleLine: StyleLineWords{
			Language: "Language",
			Tone:     "Tone",
			Audience: "Audience",
			Format:   "Format",
			Length:   "Length",
		},
		Lengths: map[string]string{
			"short":  "Short",
			"medium": "Medium",
			"long":   "Detailed",
		},
		Presets: map[string]string{
			"chat":  "You are a helpful, precise assistant. Ask questions only when essential; otherwise make reasonable assumptions and state them.",
			"image": "You are an assistant specialized in writing descriptions (prompts) for image generation models.",
			"code":  "You are an expert programming assistant. Produce correct, secure solutions and explain them clearly.",
			"data":  "You are an expert data analysis assistant. Reason in a structured way and verify assumptions and calculations.",
		},
		FormatRules: []string{
			"Use headings and bullet points where helpful.",
			"State any assumptions explicitly.",
			"If crucial data is missing, list at most {questions} targeted questions at the end.",
		},
		Closing:             "Ask up to {questions} clarifying questions only if critical information is missing; otherwise proceed with explicit assumptions.",
		ClarifyingQuestions: intPtr(defaultClarifyingQuestions),
	},
	"classic": {
		Name:        "classic",
		Description: "Italian colon labels separated by horizontal rules",
		Style:       StyleLabels,
		Separator:   "\n\n---\n\n",
		Labels: Labels{
			Role:        "Ruolo",
			Style:       "Stile",
			Goal:        "Obiettivo",
			Context:     "Contesto",
			Inputs:      "Dati / Input da usare",
			Constraints: "Vincoli",
			MustInclude: "Da includere",
			MustAvoid:   "Da evitare",
			Output:      "Formato risposta",
			Examples:    "Esempi",
			Checklist:   "Checklist di valutazione",
		},
		StyleLine: StyleLineWords{
			Language: "Lingua",
			Tone:     "Tono",
			Audience: "Pubblico",
			Format:   "Formato",
			Length:   "Lunghezza",
		},
		Lengths: map[string]string{
			"short":  "Breve",
			"medium": "Media",
			"long":   "Dettagliata",
		},
		Presets: map[string]string{
			"chat":  "Sei un assistente utile e preciso. Fai domande solo se indispensabile; altrimenti fai ipotesi ragionevoli e dichiarale.",
			"image": "Sei un assistente specializzato nel creare descrizioni (prompt) per modelli di generazione immagini.",
			"code":  "Sei un assistente esperto di programmazione. Produci soluzioni corrette, sicure e spiegate con chiarezza.",
			"data":  "Sei un assistente esperto di analisi dati. Ragioni in modo strutturato e verifichi assunzioni e calcoli.",
		},
		FormatRules: []string{
			"Usa titoli e punti elenco quando utile.",
			"Se fai assunzioni, scrivile esplicitamente.",
			"Se mancano dati cruciali, elenca massimo {questions} domande mirate alla fine.",
		},
		Closing:             "Fai al massimo {questions} domande di chiarimento solo se mancano informazioni critiche; altrimenti procedi dichiarando le assunzioni.",
		ClarifyingQuestions: intPtr(defaultClarifyingQuestions),
	},
}

// DefaultTemplate returns a copy of the built-in default template.
func DefaultTemplate() *Template {
	t := builtinTemplates[DefaultTemplateName].clone()
	return &t
}

// BuiltinTemplate returns a copy of the named built-in template.
func BuiltinTemplate(name string) (*Template, bool) {
	t, ok := builtinTemplates[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	c := t.clone()
	return &c, true
}

// BuiltinTemplateNames lists the built-in template names in sorted order.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Template) clone() Template {
	c := t
	c.Lengths = cloneMap(t.Lengths)
	c.Presets = cloneMap(t.Presets)
	c.FormatRules = append([]string(nil), t.FormatRules...)
	if t.ClarifyingQuestions != nil {
		c.ClarifyingQuestions = intPtr(*t.ClarifyingQuestions)
	}
	return c
}

func intPtr(v int) *int {
	return &v
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// withDefaults fills blank settings from base without touching t.
func (t Template) withDefaults(base Template) Template {
	out := t.clone()
	if out.Style == "" {
		out.Style = base.Style
	}
	if out.Separator == "" {
		out.Separator = base.Separator
	}
	if out.Closing == "" {
		out.Closing = base.Closing
	}
	if out.ClarifyingQuestions == nil && base.ClarifyingQuestions != nil {
		out.ClarifyingQuestions = intPtr(*base.ClarifyingQuestions)
	}
	if out.ClarifyingQuestions == nil {
		out.ClarifyingQuestions = intPtr(defaultClarifyingQuestions)
	}
	if len(out.FormatRules) == 0 {
		out.FormatRules = append([]string(nil), base.FormatRules...)
	}

	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&out.Labels.Role, base.Labels.Role)
	fill(&out.Labels.Style, base.Labels.Style)
	fill(&out.Labels.Goal, base.Labels.Goal)
	fill(&out.Labels.Context, base.Labels.Context)
	fill(&out.Labels.Inputs, base.Labels.Inputs)
	fill(&out.Labels.Constraints, base.Labels.Constraints)
	fill(&out.Labels.MustInclude, base.Labels.MustInclude)
	fill(&out.Labels.MustAvoid, base.Labels.MustAvoid)
	fill(&out.Labels.Output, base.Labels.Output)
	fill(&out.Labels.Examples, base.Labels.Examples)
	fill(&out.Labels.Checklist, base.Labels.Checklist)
	fill(&out.Labels.Closing, base.Labels.Closing)

	fill(&out.StyleLine.Language, base.StyleLine.Language)
	fill(&out.StyleLine.Tone, base.StyleLine.Tone)
	fill(&out.StyleLine.Audience, base.StyleLine.Audience)
	fill(&out.StyleLine.Format, base.StyleLine.Format)
	fill(&out.StyleLine.Length, base.StyleLine.Length)

	if out.Lengths == nil {
		out.Lengths = map[string]string{}
	}
	for k, v := range base.Lengths {
		if _, ok := out.Lengths[k]; !ok {
			out.Lengths[k] = v
		}
	}
	if out.Presets == nil {
		out.Presets = map[string]string{}
	}
	for k, v := range base.Presets {
		if _, ok := out.Presets[k]; !ok {
			out.Presets[k] = v
		}
	}
	return out
}
