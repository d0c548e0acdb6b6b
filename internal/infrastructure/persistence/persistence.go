// Package persistence opens the key-value Storage selected by configuration.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/attendance-tracker/config"
	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
	"github.com/alem-hub/attendance-tracker/pkg/retry"
)

// Backend is an opened Storage together with its lifecycle hooks.
type Backend struct {
	Driver  string
	Storage attendance.Storage

	closeFn func() error
}

// Ping checks the backend when it is network-backed.
func (b *Backend) Ping(ctx context.Context) error {
	if p, ok := b.Storage.(attendance.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the backend.
func (b *Backend) Close() error {
	if b.closeFn == nil {
		return nil
	}
	return b.closeFn()
}

// Open opens the configured driver. Network drivers are retried with
// backoff up to cfg.Storage.ConnectAttempts times and then sit behind a
// circuit breaker.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("persistence"), logger.Driver(cfg.Storage.Driver))

	attempts := retry.WithMaxAttempts(cfg.Storage.ConnectAttempts)
	onRetry := retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn("storage not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	var b *Backend
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		b = &Backend{Storage: memory.New()}

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		b = &Backend{Storage: s, closeFn: s.Close}

	case config.DriverRedis:
		rc := redis.Config{
			URL:          cfg.Redis.URL,
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   3,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		if _, err := rc.Options(); err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		s, err := retry.DoWithData(ctx, func(ctx context.Context) (*redis.Storage, error) {
			return redis.Open(ctx, rc)
		}, attempts, onRetry)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		b = &Backend{Storage: newGuardedStorage(s, "redis", log), closeFn: s.Close}

	case config.DriverPostgres:
		settings := postgres.DefaultPoolSettings()
		settings.MaxConns = cfg.Database.MaxConns
		settings.MinConns = cfg.Database.MinConns
		settings.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		settings.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		s, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Storage, error) {
			return postgres.Open(ctx, cfg.Database.URL, settings)
		}, attempts, onRetry)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b = &Backend{Storage: newGuardedStorage(s, "postgres", log), closeFn: s.Close}

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	b.Driver = cfg.Storage.Driver
	log.Info("storage opened")
	return b, nil
}
