package attendance

import "context"

// StorageKey is the fixed key the roster snapshot is saved under.
const StorageKey = "attendanceData"

// Storage is a key-value text store. Get returns shared.ErrKeyNotFound
// when the key is absent. Implementations live in
// infrastructure/persistence.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by storages backed by a network service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repository saves and restores the whole roster as one snapshot.
type Repository interface {
	// Save overwrites the stored snapshot with students.
	Save(ctx context.Context, students []Student) error

	// Load returns the stored roster. A missing or unreadable snapshot
	// yields an empty roster, never an error.
	Load(ctx context.Context) []Student

	// Clear deletes the stored snapshot.
	Clear(ctx context.Context) error
}
