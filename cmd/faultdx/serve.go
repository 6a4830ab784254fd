package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/faultdx/internal/config"
	httpserver "github.com/fyrsmithlabs/faultdx/internal/http"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
	"github.com/fyrsmithlabs/faultdx/internal/telemetry"
	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnosis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					fmt.Fprintf(cmd.ErrOrStderr(), "Received signal %v, shutting down gracefully...\n", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			return run(ctx, cfg)
		},
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config) error {
	tel, err := telemetry.New(ctx, telemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
	}()

	logger, err := newLogger(cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info(ctx, "faultdx starting",
		zap.String("version", version),
		zap.String("commit", gitCommit),
		zap.String("knowledge", cfg.Knowledge.Path),
		zap.Bool("telemetry", tel.IsEnabled()),
	)

	store, err := knowledge.Open(cfg.Knowledge.Path, logger)
	if err != nil {
		logger.Error(ctx, "failed to load knowledge base", zap.Error(err))
		return err
	}
	kb := store.Current()
	logger.Info(ctx, "knowledge base loaded",
		zap.String("version", kb.Version()),
		zap.Int("faults", kb.Len()),
		zap.Int("attributes", len(kb.Attributes())),
	)

	if cfg.Knowledge.Watch {
		watcher, err := knowledge.NewWatcher(store, cfg.Knowledge.Debounce.Duration(), logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn(ctx, "knowledge watcher did not stop cleanly", zap.Error(err))
			}
		}()
	}

	matcher, err := newMatcher(cfg.Matcher)
	if err != nil {
		return err
	}
	svc, err := troubleshoot.NewService(store, logger, matcher,
		troubleshoot.NewMetrics(prometheus.DefaultRegisterer),
		troubleshoot.WithMatchCache(cfg.Matcher.CacheSize),
	)
	if err != nil {
		return fmt.Errorf("failed to create troubleshoot service: %w", err)
	}

	server, err := httpserver.NewServer(svc, logger, serverConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", zap.String("addr", server.Addr()))
		if err := server.Start(); err != nil {
			logger.Error(ctx, "HTTP server failed", zap.Error(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "shutting down",
			zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "HTTP server shutdown error", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "server shutdown complete")
	return nil
}

func serverConfig(cfg *config.Config) *httpserver.Config {
	sc := &httpserver.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if cfg.CORS.Enabled {
		sc.AllowOrigins = cfg.CORS.AllowOrigins
	}
	if cfg.RateLimit.Enabled {
		sc.RateLimit = cfg.RateLimit.RPS
		sc.Burst = cfg.RateLimit.Burst
	}
	return sc
}
