// Package main is the entry point of the attendance tracker API server.
//
// The server restores the saved roster from the configured storage, serves
// the tracker over HTTP and saves the roster after every change.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/attendance-tracker/config"
	"github.com/alem-hub/attendance-tracker/internal/application/tracker"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/snapshot"
	httpapi "github.com/alem-hub/attendance-tracker/internal/interface/http"
	"github.com/alem-hub/attendance-tracker/internal/interface/http/handlers"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.AddCaller,
	}).With(
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
	)
	log.Info("starting attendance tracker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("timezone", cfg.App.Location.String()),
		logger.Driver(cfg.Storage.Driver),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Storage
	// ─────────────────────────────────────────────────────────────────────────
	backend, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		log.Info("closing storage")
		if err := backend.Close(); err != nil {
			log.Error("failed to close storage", logger.Err(err))
		}
	}()

	repo := snapshot.New(backend.Storage, log, snapshot.WithKey(cfg.Storage.Key))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Tracker
	// ─────────────────────────────────────────────────────────────────────────
	tr, err := tracker.New(ctx, repo, log, tracker.WithLocation(cfg.App.Location))
	if err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("storage", handlers.NewStorageCheck(backend))

	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.Version = cfg.App.Version

	server := httpapi.NewServer(httpCfg, httpapi.Dependencies{
		Tracker:       tr,
		Logger:        log,
		HealthChecker: health,
	})
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Err(err))
		return err
	}
	log.Info("attendance tracker stopped", logger.Latency(time.Since(start)))
	return nil
}
