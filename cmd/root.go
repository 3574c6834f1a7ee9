package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/promptbuilder/internal/config"
	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/spf13/cobra"
)

// skipConfigLoad marks commands that must run even when the config file is unreadable.
const skipConfigLoad = "promptbuilder/skip-config-load"

var (
	logLevel   string
	configPath string

	loadedConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptbuilder",
	Short: "Assemble structured prompts for AI chat services",
	Long: `promptbuilder turns a goal plus optional role, context, tone, constraints and
output settings into a ready-to-paste prompt.

Commands:
  promptbuilder build       Render a prompt from flags or a request file
  promptbuilder templates   List or show prompt templates
  promptbuilder send        Render a prompt and submit it to a chat API
  promptbuilder web         Run the web form
  promptbuilder config      Show or initialize the config file`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		if cmd.Annotations[skipConfigLoad] == "true" {
			cfg = config.DefaultConfig()
		} else {
			c, err := currentConfig()
			if err != nil {
				return err
			}
			cfg = c
		}

		opts := logger.Options{
			Level: cfg.Logging.Level,
			File:  cfg.Logging.File,
			JSON:  cfg.Logging.JSON,
		}
		// flag wins over config file
		if cmd.Flags().Changed("log") {
			opts.Level = logLevel
		}
		return logger.Configure(opts)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: .promptbuilder.yaml next to the executable)")
}

// currentConfig loads the config once per process.
func currentConfig() (*config.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loadedConfig = cfg
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
