package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

var fixedNow = time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC)

func buildStore(t *testing.T) *attendance.Store {
	t.Helper()
	s, err := attendance.NewStore("2024-01-10")
	require.NoError(t, err)
	alice, err := s.AddStudent("Alice", "R1")
	require.NoError(t, err)
	bob, err := s.AddStudent("Bob", "R2")
	require.NoError(t, err)
	_, err = s.AddStudent("Carol", "R3")
	require.NoError(t, err)

	_, err = s.MarkAttendance(alice.ID, attendance.StatusPresent)
	require.NoError(t, err)
	_, err = s.MarkAttendance(bob.ID, attendance.StatusAbsent)
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentDate("2024-01-11"))
	require.NoError(t, s.MarkAll(attendance.StatusPresent))
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	repo := New(storage, nil, WithClock(func() time.Time { return fixedNow }))

	store := buildStore(t)
	require.NoError(t, repo.Save(ctx, store.Students()))

	loaded := repo.Load(ctx)
	assert.Equal(t, store.Students(), loaded)
}

func TestSave_DocumentLayout(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	repo := New(storage, nil, WithClock(func() time.Time { return fixedNow }))

	require.NoError(t, repo.Save(ctx, []attendance.Student{{
		ID:         "1704879000000",
		Name:       "Alice",
		RollNo:     "R1",
		Attendance: map[string]attendance.Status{"2024-01-10": attendance.StatusPresent},
	}}))

	raw, err := storage.Get(ctx, attendance.StorageKey)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2024-01-10T09:30:00.000Z", doc["lastUpdated"])

	students := doc["students"].([]any)
	require.Len(t, students, 1)
	first := students[0].(map[string]any)
	assert.Equal(t, "1704879000000", first["id"])
	assert.Equal(t, "Alice", first["name"])
	assert.Equal(t, "R1", first["rollNo"])
	assert.Equal(t, map[string]any{"2024-01-10": "present"}, first["attendance"])
}

func TestSave_OverwritesInFull(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	repo := New(storage, nil)

	require.NoError(t, repo.Save(ctx, buildStore(t).Students()))
	require.NoError(t, repo.Save(ctx, []attendance.Student{}))

	assert.Empty(t, repo.Load(ctx))
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	repo := New(memory.New(), nil)
	loaded := repo.Load(context.Background())
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoad_CorruptedDataIsLoggedAndEmpty(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	require.NoError(t, storage.Set(ctx, attendance.StorageKey, "{not json"))

	var buf bytes.Buffer
	repo := New(storage, logger.New(logger.Options{Output: &buf, Level: logger.LevelDebug}))

	loaded := repo.Load(ctx)
	assert.Empty(t, loaded)
	assert.Contains(t, buf.String(), "error loading data")
	assert.Contains(t, buf.String(), "could not be parsed")
}

func TestLoad_BrowserSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	raw := `{"students":[
		{"id":1704879000000,"name":"Alice","rollNo":"R1","attendance":{"2024-01-10":"present"}},
		{"id":1704879000001,"name":"Bob","rollNo":"R2","attendance":null},
		{"id":1704879000002,"name":"Carol","rollNo":"R3"}
	],"lastUpdated":"2024-01-10T09:30:00.000Z"}`
	require.NoError(t, storage.Set(ctx, attendance.StorageKey, raw))

	loaded := New(storage, nil).Load(ctx)
	require.Len(t, loaded, 3)
	assert.Equal(t, "1704879000000", loaded[0].ID)
	assert.Equal(t, attendance.StatusPresent, loaded[0].Attendance["2024-01-10"])
	assert.NotNil(t, loaded[1].Attendance)
	assert.NotNil(t, loaded[2].Attendance)
}

func TestLoad_NullStudents(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	require.NoError(t, storage.Set(ctx, attendance.StorageKey, `{"students":null}`))

	loaded := New(storage, nil).Load(ctx)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

type failingStorage struct{ err error }

func (f failingStorage) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStorage) Set(context.Context, string, string) error   { return f.err }
func (f failingStorage) Remove(context.Context, string) error        { return f.err }

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	repo := New(failingStorage{err: boom}, nil)

	err := repo.Save(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrPersistFailed)
	assert.ErrorIs(t, err, boom)

	assert.Empty(t, repo.Load(ctx))

	err = repo.Clear(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	repo := New(storage, nil, WithKey("custom"))

	require.NoError(t, repo.Save(ctx, buildStore(t).Students()))
	_, err := storage.Get(ctx, "custom")
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))
	_, err = storage.Get(ctx, "custom")
	assert.ErrorIs(t, err, shared.ErrKeyNotFound)
}
