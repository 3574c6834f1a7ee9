package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/kayz/promptbuilder/internal/promptbuild"
	"github.com/kayz/promptbuilder/internal/webui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var webPort int

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the prompt builder web form",
	RunE:  runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().IntVar(&webPort, "port", 18080, "Web UI listen port (default from config)")
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	port := cfg.Web.Port
	if cmd.Flags().Changed("port") || port == 0 {
		port = webPort
	}

	builder := promptbuild.NewBuilder(cfg.PromptBuild)
	server := webui.NewServer(builder, webui.Options{
		HistoryLimit: cfg.PromptBuild.HistoryLimit,
		SessionTTL:   cfg.Web.SessionTTLDuration(),
	})

	jobs, err := server.StartJobs(cfg.Web.AuditCleanupSchedule, builder.CleanupOldAuditFiles)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Web UI listening on http://127.0.0.1:%d", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web UI server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down web UI")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
