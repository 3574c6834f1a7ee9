package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kayz/promptbuilder/internal/promptbuild"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// requestFlags holds the prompt field flags shared by build and send.
type requestFlags struct {
	requestPath string
	template    string

	role         string
	preset       string
	goal         string
	context      string
	inputs       string
	audience     string
	tone         string
	language     string
	constraints  []string
	mustInclude  []string
	mustAvoid    []string
	outputFormat string
	length       string
	examples     string
	checklist    string
	formatRules  bool
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	fl := cmd.Flags()
	fl.StringVar(&f.requestPath, "request", "", "Path to a JSON or YAML request file")
	fl.StringVar(&f.template, "template", "", "Template name (default from config)")
	fl.StringVar(&f.role, "role", "", "Persona the AI should take")
	fl.StringVar(&f.preset, "preset", "", "Role preset used when --role is empty: chat, image, code, data")
	fl.StringVar(&f.goal, "goal", "", "What you want to obtain (required)")
	fl.StringVar(&f.context, "context", "", "Background information")
	fl.StringVar(&f.inputs, "inputs", "", "Data or text the AI must use")
	fl.StringVar(&f.audience, "audience", "", "Who the answer is for")
	fl.StringVar(&f.tone, "tone", "", "Tone of the answer")
	fl.StringVar(&f.language, "language", "", "Output language")
	fl.StringArrayVar(&f.constraints, "constraint", nil, "Constraint (repeatable, order preserved)")
	fl.StringArrayVar(&f.mustInclude, "must-include", nil, "Item the answer must include (repeatable)")
	fl.StringArrayVar(&f.mustAvoid, "must-avoid", nil, "Item the answer must avoid (repeatable)")
	fl.StringVar(&f.outputFormat, "format", "", "Output format")
	fl.StringVar(&f.length, "length", "", "Answer length: short, medium, long")
	fl.StringVar(&f.examples, "examples", "", "Examples to follow")
	fl.StringVar(&f.checklist, "checklist", "", "Evaluation checklist")
	fl.BoolVar(&f.formatRules, "format-rules", false, "Append the template's response format rules")
}

// buildRequest reads the request file (if any) and applies the flags that were set.
func (f *requestFlags) buildRequest(cmd *cobra.Command) (promptbuild.BuildRequest, error) {
	var req promptbuild.BuildRequest
	if f.requestPath != "" {
		loaded, err := readBuildRequest(f.requestPath)
		if err != nil {
			return req, err
		}
		req = loaded
	}

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setString("template", &req.Template, f.template)
	setString("role", &req.Role, f.role)
	setString("preset", &req.Preset, f.preset)
	setString("goal", &req.Goal, f.goal)
	setString("context", &req.Context, f.context)
	setString("inputs", &req.Inputs, f.inputs)
	setString("audience", &req.Audience, f.audience)
	setString("tone", &req.Tone, f.tone)
	setString("language", &req.Language, f.language)
	setString("format", &req.OutputFormat, f.outputFormat)
	setString("length", &req.Length, f.length)
	setString("examples", &req.Examples, f.examples)
	setString("checklist", &req.EvaluationChecklist, f.checklist)
	if changed("constraint") {
		req.Constraints = f.constraints
	}
	if changed("must-include") {
		req.MustInclude = f.mustInclude
	}
	if changed("must-avoid") {
		req.MustAvoid = f.mustAvoid
	}
	if changed("format-rules") {
		req.FormatRules = f.formatRules
	}
	return req, nil
}

// readBuildRequest decodes a request file; .yaml/.yml files are YAML, everything else JSON.
func readBuildRequest(path string) (promptbuild.BuildRequest, error) {
	var req promptbuild.BuildRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request: %w", err)
		}
	}
	return req, nil
}
