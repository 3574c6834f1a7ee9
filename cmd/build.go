package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/kayz/promptbuilder/internal/config"
	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/kayz/promptbuilder/internal/promptbuild"
	"github.com/spf13/cobra"
)

var (
	buildFlags      requestFlags
	buildOutputPath string
	buildCopy       bool
	buildRender     bool
	buildWatch      bool
	buildRecord     bool
	buildRecordDir  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a prompt from flags or a request file",
	Example: `  promptbuilder build --goal "Write a 4-week beginner workout plan" --tone Friendly \
      --constraint "max 300 words" --constraint "use a table"
  promptbuilder build --request request.yaml --template classic --output prompt_builder.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		builder := promptbuild.NewBuilder(cfg.PromptBuild)

		if err := buildOnce(cmd, cfg, builder); err != nil {
			return err
		}
		if !buildWatch {
			return nil
		}
		if buildFlags.requestPath == "" {
			return fmt.Errorf("--watch requires --request")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("Watching %s for changes (Ctrl+C to stop)", buildFlags.requestPath)
		return watchFile(ctx, buildFlags.requestPath, func() {
			if err := buildOnce(cmd, cfg, builder); err != nil {
				logger.Warn("Rebuild failed: %v", err)
			}
		})
	},
}

func buildOnce(cmd *cobra.Command, cfg *config.Config, builder *promptbuild.Builder) error {
	req, err := buildFlags.buildRequest(cmd)
	if err != nil {
		return err
	}

	res, err := builder.Build(req)
	if err != nil {
		if field, ok := promptbuild.MissingField(err); ok {
			logger.Warn("The %s field is empty: describe what you want to obtain first", field)
		}
		return err
	}

	if buildOutputPath != "" {
		if err := promptbuild.WriteExport(buildOutputPath, res.Prompt); err != nil {
			return err
		}
		logger.Info("Prompt written to %s", buildOutputPath)
	} else if err := printPrompt(cmd.OutOrStdout(), res.Prompt, buildRender); err != nil {
		return err
	}

	if buildCopy {
		if err := clipboard.WriteAll(res.Prompt); err != nil {
			logger.Warn("copy to clipboard failed: %v", err)
		} else {
			logger.Info("Prompt copied to clipboard")
		}
	}

	if buildRecord {
		if err := recordPromptBuild(cfg.PromptBuild, req, res.Prompt); err != nil {
			logger.Warn("record promptbuild failed: %v", err)
		}
	}
	return nil
}

// printPrompt writes text verbatim, or rendered as terminal markdown when render is set.
func printPrompt(w io.Writer, text string, render bool) error {
	if render {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		out, err := r.Render(text)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = fmt.Fprint(w, out)
		return err
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func recordPromptBuild(cfg config.PromptBuildConfig, req promptbuild.BuildRequest, out string) error {
	recordDir := buildRecordDir
	if recordDir == "" {
		recordDir = "promptbuild-records"
	}
	if !filepath.IsAbs(recordDir) {
		root := cfg.RootDir
		if root == "" {
			root = "."
		}
		recordDir = filepath.Join(root, recordDir)
	}
	if err := os.MkdirAll(recordDir, 0755); err != nil {
		return err
	}

	reqBytes, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102-150405")
	reqPath := filepath.Join(recordDir, fmt.Sprintf("request-%s.json", ts))
	outPath := filepath.Join(recordDir, fmt.Sprintf("output-%s.txt", ts))

	if err := os.WriteFile(reqPath, reqBytes, 0644); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return err
	}
	return nil
}

func init() {
	addRequestFlags(buildCmd, &buildFlags)
	buildCmd.Flags().StringVar(&buildOutputPath, "output", "", "Write output to file (default: stdout)")
	buildCmd.Flags().BoolVar(&buildCopy, "copy", false, "Copy the prompt to the system clipboard")
	buildCmd.Flags().BoolVar(&buildRender, "render", false, "Render the prompt as markdown in the terminal")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Rebuild whenever the request file changes")
	buildCmd.Flags().BoolVar(&buildRecord, "record", false, "Record request/output to files")
	buildCmd.Flags().StringVar(&buildRecordDir, "record-dir", "", "Directory to write record files (default: promptbuild-records)")
	rootCmd.AddCommand(buildCmd)
}
