package cmd

import (
	"context"
	"time"

	"github.com/kayz/promptbuilder/internal/dispatch"
	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/kayz/promptbuilder/internal/promptbuild"
	"github.com/spf13/cobra"
)

var (
	sendFlags   requestFlags
	sendModel   string
	sendTimeout time.Duration
	sendRender  bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Assemble a prompt and submit it to an OpenAI-compatible chat API",
	Example: `  OPENAI_API_KEY=sk-... promptbuilder send --goal "Summarize the attached notes" --inputs "$(cat notes.txt)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		req, err := sendFlags.buildRequest(cmd)
		if err != nil {
			return err
		}
		res, err := promptbuild.NewBuilder(cfg.PromptBuild).Build(req)
		if err != nil {
			if field, ok := promptbuild.MissingField(err); ok {
				logger.Warn("The %s field is empty: describe what you want to obtain first", field)
			}
			return err
		}

		aiCfg := cfg.AI
		if cmd.Flags().Changed("model") {
			aiCfg.Model = sendModel
		}
		client, err := dispatch.New(aiCfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
		defer cancel()

		logger.Info("Sending %d-byte prompt to %s", len(res.Prompt), client.Model())
		reply, err := client.Send(ctx, res.Prompt)
		if err != nil {
			return err
		}
		return printPrompt(cmd.OutOrStdout(), reply, sendRender)
	},
}

func init() {
	addRequestFlags(sendCmd, &sendFlags)
	sendCmd.Flags().StringVar(&sendModel, "model", "", "Model name (default from config)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 2*time.Minute, "Request timeout")
	sendCmd.Flags().BoolVar(&sendRender, "render", false, "Render the reply as markdown in the terminal")
	rootCmd.AddCommand(sendCmd)
}
