// Package main is the entry point for the wavefront daemon.
//
// It loads configuration from the environment, opens the configured event
// store (YAML catalog or Postgres), wraps it in the caching area provider
// and serves the HTTP API until interrupted. Graceful shutdown is handled
// via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"wavefront/internal/api"
	"wavefront/internal/areas"
	"wavefront/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit
// on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("wavefront daemon starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"addr", cfg.Server.Addr(),
		"store", cfg.Store.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, events, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := areas.NewProvider(store, events, logger)

	srv, err := api.NewServer(cfg, provider, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newStore opens the configured backend. Both the Store and EventSource
// sides of the provider come from the same backend instance; the returned
// cleanup releases any connection pool.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (areas.Store, areas.EventSource, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("pinging postgres: %w", err)
		}
		st := areas.NewPGStore(pool)
		return st, st, pool.Close, nil

	default:
		cat, err := areas.LoadCatalog(cfg.Store.CatalogPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading catalog %s: %w", cfg.Store.CatalogPath, err)
		}
		logger.Info("event catalog loaded", "path", cfg.Store.CatalogPath)
		return cat, cat, func() {}, nil
	}
}

// newLogger creates a structured slog.Logger configured for the given
// log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
