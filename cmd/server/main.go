package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/config"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dlq"
	"github.com/ChristianFajardo2022/audiosmadres/internal/metrics"
	"github.com/ChristianFajardo2022/audiosmadres/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "audiosmadres",
		Short:         "Form submission, audio storage and payment callback API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(stockCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates configuration and sets up the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger writes pretty console output in development and JSON otherwise.
func setupLogger(cfg *config.Config) {
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r, err := router.New(router.Deps{
		Config:   cfg,
		Usuarios: b.usuarios,
		Stock:    b.stock,
		Audios:   b.audios,
		Redis:    b.redis,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Checks:   b.checks,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute, // streamed uploads and downloads
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("store", cfg.StoreDriver).
			Str("blob", cfg.BlobDriver).
			Msgf("audiosmadres listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Connect to the configured backends and ping them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			b, err := openBackends(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			return b.ping(ctx)
		},
	}
}

func stockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Print the stock counter and the number of failed stock updates awaiting reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			b, err := openBackends(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			value, err := b.stock.Get(ctx)
			if err != nil {
				return fmt.Errorf("read stock %s/%s: %w", cfg.StockCollection, cfg.StockDocumentID, err)
			}
			pending, err := dlq.New(b.redis).Length(ctx, dlq.SourceStock)
			if err != nil {
				return fmt.Errorf("read dlq: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stock %s/%s: %d\n", cfg.StockCollection, cfg.StockDocumentID, value)
			fmt.Fprintf(cmd.OutOrStdout(), "pending stock failures (%s%s): %d\n", dlq.Prefix, dlq.SourceStock, pending)
			return nil
		},
	}
}
