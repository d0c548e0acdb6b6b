// Package memory provides an in-process key-value Storage. It backs the
// "memory" driver and the tests of every layer above persistence.
package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
)

// Storage is a map guarded by a mutex.
type Storage struct {
	mu     sync.RWMutex
	data   map[string]string
	writes int
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{data: make(map[string]string)}
}

// Get returns the value for key or shared.ErrKeyNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", shared.ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.writes++
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Writes returns how many Set calls succeeded.
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
