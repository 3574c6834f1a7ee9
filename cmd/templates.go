package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/kayz/promptbuilder/internal/promptbuild"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available prompt templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		builder := promptbuild.NewBuilder(cfg.PromptBuild)

		names, err := builder.Templates()
		if err != nil {
			return err
		}
		nameStyle := lipgloss.NewStyle().Bold(true).Width(16)
		descStyle := lipgloss.NewStyle().Faint(true)
		defaultName := defaultTemplateName(cfg.PromptBuild.DefaultTemplate)

		out := cmd.OutOrStdout()
		for _, name := range names {
			marker := " "
			if name == defaultName {
				marker = "*"
			}
			var desc string
			if tmpl, err := builder.Template(name); err != nil {
				logger.Warn("Template %s is not usable: %v", name, err)
				desc = "(invalid)"
			} else {
				desc = tmpl.Description
			}
			fmt.Fprintf(out, "%s %s %s\n", marker, nameStyle.Render(name), descStyle.Render(desc))
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print the resolved settings of a template as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		tmpl, err := promptbuild.NewBuilder(cfg.PromptBuild).Template(args[0])
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(tmpl)
		if err != nil {
			return fmt.Errorf("encode template: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func defaultTemplateName(configured string) string {
	if configured == "" {
		return promptbuild.DefaultTemplateName
	}
	return configured
}

func init() {
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}
