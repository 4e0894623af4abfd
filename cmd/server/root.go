package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nanobanana-tryon/internal/app"
	"nanobanana-tryon/internal/config"
	"nanobanana-tryon/internal/logging"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	cfgPath   string
	port      string
	model     string
	baseURL   string
	useVertex bool
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Virtual try-on web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "", "config toml path (default $"+config.ConfigPathEnv+")")
	fs.StringVar(&opts.port, "port", "", "listen port")
	fs.StringVar(&opts.model, "model", "", "generation model")
	fs.StringVar(&opts.baseURL, "base-url", "", "override API base URL")
	fs.BoolVar(&opts.useVertex, "vertex", false, "use the Vertex AI backend")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "", "auto, text or json")

	cmd.AddCommand(newInitConfigCmd())
	return cmd
}

// loadConfig applies flags on top of env and file values.
func loadConfig(cmd *cobra.Command, opts serveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("port") {
		cfg.Port = opts.port
	}
	if fs.Changed("model") {
		cfg.Model = opts.model
	}
	if fs.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if fs.Changed("vertex") {
		cfg.UseVertex = opts.useVertex
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", srv.Addr,
			"model", cfg.Model,
			"vertex", cfg.UseVertex,
			"config", cfg.Path,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}

func newInitConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a sample config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "out", "o", "config.toml", "output path")
	return cmd
}
