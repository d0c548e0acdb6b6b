package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/circuitbreaker"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

// guardedStorage fails fast while the network backend behind it keeps
// failing, instead of letting every save wait out its own timeout.
type guardedStorage struct {
	next    attendance.Storage
	breaker *circuitbreaker.CircuitBreaker
}

func newGuardedStorage(next attendance.Storage, name string, log *logger.Logger, opts ...circuitbreaker.Option) *guardedStorage {
	opts = append([]circuitbreaker.Option{
		circuitbreaker.WithIsFailure(func(err error) bool {
			return !errors.Is(err, shared.ErrKeyNotFound)
		}),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("storage circuit changed state",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}, opts...)
	return &guardedStorage{
		next:    next,
		breaker: circuitbreaker.New(name, opts...),
	}
}

func (g *guardedStorage) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		val, err = g.next.Get(ctx, key)
		return err
	})
	return val, g.rejected(err)
}

func (g *guardedStorage) Set(ctx context.Context, key, value string) error {
	return g.rejected(g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Set(ctx, key, value)
	}))
}

func (g *guardedStorage) Remove(ctx context.Context, key string) error {
	return g.rejected(g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Remove(ctx, key)
	}))
}

// Ping bypasses the breaker so health checks see the backend's real state.
func (g *guardedStorage) Ping(ctx context.Context) error {
	if p, ok := g.next.(attendance.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *guardedStorage) rejected(err error) error {
	if circuitbreaker.IsRejected(err) {
		return fmt.Errorf("%s: %w: %w", g.breaker.Name(), shared.ErrUnavailable, err)
	}
	return err
}
