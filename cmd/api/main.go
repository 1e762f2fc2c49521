// Package main is the entry point for the Valens periods API server.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zapponejosh/valens-periods/internal/api"
	"github.com/zapponejosh/valens-periods/internal/config"
	"github.com/zapponejosh/valens-periods/internal/database"
	"github.com/zapponejosh/valens-periods/internal/logger"
	"github.com/zapponejosh/valens-periods/internal/periods"
	"github.com/zapponejosh/valens-periods/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting valens periods API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("session_store", cfg.SessionStore),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server terminated", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := api.NewMetrics(registry)
	if err != nil {
		return err
	}

	tables := periods.DefaultTables()
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("period tables: %w", err)
	}

	handlers := api.NewHandlers(store, tables, cfg, log, metrics)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log, metrics, registry),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("valens periods API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the configured session store. The SQLite store is
// migrated and gets a background sweep of expired rows.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.Store, error) {
	if cfg.SessionStore != config.StoreSQLite {
		return session.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL), nil
	}

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return nil, err
	}
	applied, err := db.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if applied > 0 {
		log.Info("applied migrations", slog.Int("count", applied))
	}

	go purgeLoop(ctx, db, cfg.SessionTTL, log)
	return db, nil
}

// purgeLoop deletes expired sessions every ttl until ctx is done.
func purgeLoop(ctx context.Context, db *database.DB, ttl time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := db.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				log.Warn("purge expired sessions", slog.Any("error", err))
			}
		}
	}
}
