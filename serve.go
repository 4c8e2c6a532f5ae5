package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvhariharan/actordir/config"
	"github.com/cvhariharan/actordir/directory"
	"github.com/cvhariharan/actordir/logging"
	"github.com/cvhariharan/actordir/server"
	"github.com/cvhariharan/actordir/store"
	"github.com/cvhariharan/actordir/store/memory"
	"github.com/cvhariharan/actordir/store/postgres"
	"github.com/cvhariharan/actordir/store/redisstore"
	"github.com/cvhariharan/actordir/telemetry"
	"github.com/cvhariharan/actordir/webfinger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the directory HTTP server",
		Long:  `Serve actor creation, WebFinger discovery and latency metrics. DOMAIN and PORT override the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel, verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			dir := directory.New(st, cfg.Domain, directory.WithLogger(logger.Named("directory")))
			window := telemetry.NewWindow(st,
				telemetry.WithRetention(cfg.Telemetry.Retention),
				telemetry.WithLogger(logger.Named("telemetry")),
			)
			srv := server.New(dir, webfinger.NewResolver(dir, dir.Domain()), window, logger.Named("http"))

			logger.Info("actordir configured",
				zap.String("domain", cfg.Domain),
				zap.String("store", cfg.Store.Backend),
				zap.Duration("latency_window", window.Retention()))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(cfg.Addr())
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("graceful shutdown failed", zap.Error(err))
				}
				logger.Info("server stopped")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case store.BackendRedis:
		st, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	case store.BackendPostgres:
		st, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	case store.BackendMemory, "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
