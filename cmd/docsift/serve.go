package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docsift/docsift/internal/api"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embed"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP service",
	Run: func(cmd *cobra.Command, args []string) {
		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		provider := embed.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)

		orch := pipeline.NewOrchestrator(cfg, provider, log)
		orch.Start(ctx)

		srv := api.NewServer(orch, provider, log, cfg)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down...")

			orch.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting docsift", "port", cfg.Port, "embedding_model", cfg.EmbeddingModel)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
