// Package tracker is the command interface of the attendance tracker. It owns
// the single attendance.Store, serializes every user intent on it, and saves
// the whole roster after each mutation.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alem-hub/attendance-tracker/internal/application/report"
	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
	"github.com/alem-hub/attendance-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTRUCTION
// ══════════════════════════════════════════════════════════════════════════════

// Tracker handles user intents. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	store *attendance.Store
	repo  attendance.Repository
	log   *logger.Logger
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLocation sets the timezone that decides which day is "today".
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDGenerator overrides the student id generator.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		t.newID = fn
	}
}

// New restores the saved roster from repo and points the current date at
// today. A missing or unreadable snapshot starts an empty roster.
func New(ctx context.Context, repo attendance.Repository, log *logger.Logger, opts ...Option) (*Tracker, error) {
	if log == nil {
		log = logger.Nop()
	}
	t := &Tracker{
		repo: repo,
		log:  log.With(logger.Component("tracker")),
		loc:  time.UTC,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	var storeOpts []attendance.StoreOption
	if t.newID != nil {
		storeOpts = append(storeOpts, attendance.WithIDGenerator(t.newID))
	}
	store, err := attendance.NewStore(t.today(), storeOpts...)
	if err != nil {
		return nil, err
	}
	store.Restore(repo.Load(ctx))
	t.store = store

	t.log.Info("attendance data restored",
		logger.Int("students", store.Len()),
		logger.DateKey(store.CurrentDate()),
	)
	return t, nil
}

func (t *Tracker) today() string {
	return timeutil.DateKey(t.now().In(t.loc))
}

// save persists the roster. The in-memory state stays authoritative when it
// fails; the caller gets the error so it can tell the user.
func (t *Tracker) save(ctx context.Context, op string) error {
	start := time.Now()
	if err := t.repo.Save(ctx, t.store.Students()); err != nil {
		t.log.Error("failed to save attendance data",
			logger.Operation(op),
			logger.Err(err),
		)
		if errors.Is(err, shared.ErrPersistFailed) {
			return err
		}
		return shared.WrapError("storage", "Save", shared.ErrStorage, "failed to save attendance data", err)
	}
	t.log.Debug("attendance data saved",
		logger.Operation(op),
		logger.Int("students", t.store.Len()),
		logger.Latency(time.Since(start)),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INTENTS
// ══════════════════════════════════════════════════════════════════════════════

// AddStudent adds a student to the end of the roster.
func (t *Tracker) AddStudent(ctx context.Context, name, rollNo string) (attendance.Student, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.store.AddStudent(name, rollNo)
	if err != nil {
		t.log.Info("student rejected", logger.Err(err))
		return attendance.Student{}, err
	}
	t.log.Info("student added",
		logger.StudentID(st.ID),
		logger.String("roll_no", st.RollNo),
	)
	return st, t.save(ctx, "AddStudent")
}

// RemoveStudent deletes a student. Removing an unknown id reports false and
// writes nothing.
func (t *Tracker) RemoveStudent(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.store.RemoveStudent(id) {
		t.log.Debug("remove ignored, unknown student", logger.StudentID(id))
		return false, nil
	}
	t.log.Info("student removed", logger.StudentID(id))
	return true, t.save(ctx, "RemoveStudent")
}

// Mark records status for one student on the current date.
func (t *Tracker) Mark(ctx context.Context, id string, status attendance.Status) (attendance.Student, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ok, err := t.store.MarkAttendance(id, status)
	if err != nil {
		return attendance.Student{}, err
	}
	if !ok {
		return attendance.Student{}, shared.ErrStudentNotFound
	}
	st, _ := t.store.Student(id)
	t.log.Info("attendance marked",
		logger.StudentID(id),
		logger.DateKey(t.store.CurrentDate()),
		logger.Status(string(status)),
	)
	return st, t.save(ctx, "Mark")
}

// MarkAll records status for every student on the current date. An empty
// roster returns shared.ErrNoStudents and writes nothing.
func (t *Tracker) MarkAll(ctx context.Context, status attendance.Status) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.MarkAll(status); err != nil {
		return 0, err
	}
	n := t.store.Len()
	t.log.Info("attendance marked for everyone",
		logger.DateKey(t.store.CurrentDate()),
		logger.Status(string(status)),
		logger.Int("students", n),
	)
	return n, t.save(ctx, "MarkAll")
}

// MarkAllPresent marks every student present on the current date.
func (t *Tracker) MarkAllPresent(ctx context.Context) (int, error) {
	return t.MarkAll(ctx, attendance.StatusPresent)
}

// MarkAllAbsent marks every student absent on the current date.
func (t *Tracker) MarkAllAbsent(ctx context.Context) (int, error) {
	return t.MarkAll(ctx, attendance.StatusAbsent)
}

// ClearCurrentDate returns every student to unmarked on the current date.
// Students are never removed.
func (t *Tracker) ClearCurrentDate(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.ClearCurrentDate(); err != nil {
		return err
	}
	t.log.Info("attendance cleared", logger.DateKey(t.store.CurrentDate()))
	return t.save(ctx, "ClearCurrentDate")
}

// SetCurrentDate moves the editing cursor to date.
func (t *Tracker) SetCurrentDate(ctx context.Context, date string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SetCurrentDate(date); err != nil {
		return err
	}
	t.log.Info("current date changed", logger.DateKey(date))
	return t.save(ctx, "SetCurrentDate")
}

// Export renders the CSV report.
func (t *Tracker) Export(_ context.Context) (*report.Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rep, err := report.Export(t.store)
	if err != nil {
		return nil, err
	}
	t.log.Info("report exported",
		logger.Int("students", rep.Students),
		logger.Int("dates", rep.Dates),
	)
	return rep, nil
}

// Reset drops every student and deletes the saved snapshot.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := t.store.Len()
	t.store.Reset()
	if err := t.repo.Clear(ctx); err != nil {
		t.log.Error("failed to delete saved attendance data", logger.Err(err))
		return err
	}
	t.log.Warn("all attendance data reset", logger.Int("students", removed))
	return nil
}
