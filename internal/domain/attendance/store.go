package attendance

import (
	"strings"

	"github.com/google/uuid"

	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/timeutil"
)

// Store owns the roster and the current-date cursor.
type Store struct {
	students    []Student
	currentDate string
	newID       func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator replaces the default UUIDv7 generator. Generated IDs must
// be unique within the roster.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates an empty store positioned on currentDate.
func NewStore(currentDate string, opts ...StoreOption) (*Store, error) {
	if !timeutil.IsDateKey(currentDate) {
		return nil, shared.ErrInvalidDate
	}
	s := &Store{
		students:    make([]Student, 0),
		currentDate: currentDate,
		newID:       newStudentID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newStudentID returns a time-ordered UUIDv7, so IDs increase with creation
// time like the millisecond timestamps used by earlier versions.
func newStudentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// READ ACCESS
// ══════════════════════════════════════════════════════════════════════════════

// CurrentDate returns the date key mark and clear operations act on.
func (s *Store) CurrentDate() string {
	return s.currentDate
}

// Len returns the roster size.
func (s *Store) Len() int {
	return len(s.students)
}

// Students returns a deep copy of the roster in display order.
func (s *Store) Students() []Student {
	out := make([]Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.clone()
	}
	return out
}

// Student returns a copy of the student with the given id.
func (s *Store) Student(id string) (Student, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.students[i].clone(), true
	}
	return Student{}, false
}

func (s *Store) indexOf(id string) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATORS
// ══════════════════════════════════════════════════════════════════════════════

// Restore replaces the roster with a copy of students, e.g. a snapshot
// loaded at startup. Nil attendance maps become empty maps.
func (s *Store) Restore(students []Student) {
	s.students = make([]Student, 0, len(students))
	for _, st := range students {
		c := st.clone()
		s.students = append(s.students, c)
	}
}

// AddStudent appends a new student. Name and roll number are trimmed and
// must be non-empty and unique ignoring case; name is checked first.
func (s *Store) AddStudent(name, rollNo string) (Student, error) {
	name = strings.TrimSpace(name)
	rollNo = strings.TrimSpace(rollNo)

	if name == "" {
		return Student{}, shared.ErrEmptyName
	}
	if rollNo == "" {
		return Student{}, shared.ErrEmptyRollNo
	}

	foldedName := fold(name)
	for _, st := range s.students {
		if fold(st.Name) == foldedName {
			return Student{}, shared.ErrDuplicateName
		}
	}
	foldedRoll := fold(rollNo)
	for _, st := range s.students {
		if fold(st.RollNo) == foldedRoll {
			return Student{}, shared.ErrDuplicateRollNo
		}
	}

	st := Student{
		ID:         s.newID(),
		Name:       name,
		RollNo:     rollNo,
		Attendance: make(map[string]Status),
	}
	s.students = append(s.students, st)
	return st.clone(), nil
}

// RemoveStudent deletes the student with id. It reports whether a student
// was removed; removing an unknown id is a no-op.
func (s *Store) RemoveStudent(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.students = append(s.students[:i], s.students[i+1:]...)
	return true
}

// MarkAttendance records status for the current date. It reports false
// without error when id is unknown.
func (s *Store) MarkAttendance(id string, status Status) (bool, error) {
	if !status.IsValid() {
		return false, shared.ErrInvalidStatus
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.students[i].Attendance[s.currentDate] = status
	return true, nil
}

// MarkAll records status for the current date on every student.
func (s *Store) MarkAll(status Status) error {
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	if len(s.students) == 0 {
		return shared.ErrNoStudents
	}
	for i := range s.students {
		s.students[i].Attendance[s.currentDate] = status
	}
	return nil
}

// ClearCurrentDate removes the current date's entry from every student,
// returning them to unmarked. Students themselves are never removed.
func (s *Store) ClearCurrentDate() error {
	if len(s.students) == 0 {
		return shared.ErrNoStudents
	}
	for i := range s.students {
		delete(s.students[i].Attendance, s.currentDate)
	}
	return nil
}

// SetCurrentDate moves the cursor. Records on other dates are untouched.
func (s *Store) SetCurrentDate(date string) error {
	if !timeutil.IsDateKey(date) {
		return shared.ErrInvalidDate
	}
	s.currentDate = date
	return nil
}

// Reset drops every student. The current date is kept.
func (s *Store) Reset() {
	s.students = make([]Student, 0)
}
