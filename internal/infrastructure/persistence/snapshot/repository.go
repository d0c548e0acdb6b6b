// Package snapshot persists the whole roster as a single JSON document in a
// key-value Storage. Every save overwrites the previous document in full.
//
// Document layout:
//
//	{
//	  "students": [
//	    {"id": "...", "name": "Alice", "rollNo": "R1",
//	     "attendance": {"2024-01-10": "present"}}
//	  ],
//	  "lastUpdated": "2024-01-10T09:30:00.000Z"
//	}
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

// timestampLayout matches JavaScript's Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// studentID accepts both JSON strings and JSON numbers. Snapshots written by
// the browser version of the tracker used millisecond timestamps as ids.
type studentID string

func (id *studentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = studentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("student id must be a string or number: %w", err)
	}
	*id = studentID(n.String())
	return nil
}

type studentDTO struct {
	ID         studentID         `json:"id"`
	Name       string            `json:"name"`
	RollNo     string            `json:"rollNo"`
	Attendance map[string]string `json:"attendance"`
}

type document struct {
	Students    []studentDTO `json:"students"`
	LastUpdated string       `json:"lastUpdated"`
}

// Repository implements attendance.Repository over a Storage.
type Repository struct {
	storage attendance.Storage
	key     string
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithKey overrides attendance.StorageKey.
func WithKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithClock overrides the clock used for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Repository. A nil log discards output.
func New(storage attendance.Storage, log *logger.Logger, opts ...Option) *Repository {
	if log == nil {
		log = logger.Nop()
	}
	r := &Repository{
		storage: storage,
		key:     attendance.StorageKey,
		log:     log.With(logger.Component("snapshot")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ attendance.Repository = (*Repository)(nil)

// Save serializes students and overwrites the stored document.
func (r *Repository) Save(ctx context.Context, students []attendance.Student) error {
	doc := document{
		Students:    make([]studentDTO, 0, len(students)),
		LastUpdated: r.now().UTC().Format(timestampLayout),
	}
	for _, st := range students {
		att := make(map[string]string, len(st.Attendance))
		for date, status := range st.Attendance {
			att[date] = string(status)
		}
		doc.Students = append(doc.Students, studentDTO{
			ID:         studentID(st.ID),
			Name:       st.Name,
			RollNo:     st.RollNo,
			Attendance: att,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "failed to save attendance data", err)
	}
	if err := r.storage.Set(ctx, r.key, string(data)); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "failed to save attendance data", err)
	}
	return nil
}

// Load reads the stored roster. Missing, unreadable and corrupted documents
// all yield an empty roster; the latter two are logged.
func (r *Repository) Load(ctx context.Context) []attendance.Student {
	raw, err := r.storage.Get(ctx, r.key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return []attendance.Student{}
	}
	if err != nil {
		r.log.Error("failed to read saved attendance data, starting fresh", logger.Err(err))
		return []attendance.Student{}
	}

	students, err := decode(raw)
	if err != nil {
		r.log.Error("error loading data, starting fresh",
			logger.Err(shared.WrapError("storage", "Load", shared.ErrCorrupted, "saved attendance data could not be parsed", err)),
			logger.Int("bytes", len(raw)),
		)
		return []attendance.Student{}
	}
	return students
}

// Clear deletes the stored document.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.storage.Remove(ctx, r.key); err != nil {
		return shared.WrapError("storage", "Clear", shared.ErrStorage, "failed to delete attendance data", err)
	}
	return nil
}

func decode(raw string) ([]attendance.Student, error) {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}

	students := make([]attendance.Student, 0, len(doc.Students))
	for _, dto := range doc.Students {
		att := make(map[string]attendance.Status, len(dto.Attendance))
		for date, status := range dto.Attendance {
			att[date] = attendance.Status(status)
		}
		students = append(students, attendance.Student{
			ID:         string(dto.ID),
			Name:       dto.Name,
			RollNo:     dto.RollNo,
			Attendance: att,
		})
	}
	return students, nil
}
