package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
)

// Storage keeps key-value pairs in the kv_store table.
type Storage struct {
	conn *Connection
}

// Open connects, applies migrations and returns a ready Storage.
func Open(ctx context.Context, databaseURL string, settings PoolSettings) (*Storage, error) {
	conn, err := NewConnectionFromURL(ctx, databaseURL, settings)
	if err != nil {
		return nil, err
	}
	if err := NewMigrator(conn).Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return NewStorage(conn), nil
}

// NewStorage wraps an open connection.
func NewStorage(conn *Connection) *Storage {
	return &Storage{conn: conn}
}

// Close closes the underlying pool.
func (s *Storage) Close() error {
	s.conn.Close()
	return nil
}

// Ping checks the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Get returns the value for key or shared.ErrKeyNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if IsNoRows(err) {
		return "", shared.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("postgres: set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: delete %q: %w", key, err)
	}
	return nil
}
