package attendance

import (
	"strings"

	"golang.org/x/text/cases"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the attendance status of a student on a date.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// IsValid reports whether s is one of the two known statuses.
func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

// Label returns the roster label for s. The zero Status means unmarked.
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "✓ Present"
	case StatusAbsent:
		return "✗ Absent"
	default:
		return "Not Marked"
	}
}

// Code returns the single-letter report code: P, A, or - for unmarked.
func (s Status) Code() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	default:
		return "-"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is one roster entry.
type Student struct {
	// ID is assigned at creation and never changes.
	ID string

	// Name is unique across the roster, compared case-insensitively.
	Name string

	// RollNo is unique across the roster, compared case-insensitively.
	RollNo string

	// Attendance maps date keys to statuses. Never nil.
	Attendance map[string]Status
}

// StatusOn returns the status recorded for date, or "" if unmarked.
func (s Student) StatusOn(date string) Status {
	return s.Attendance[date]
}

// clone returns a deep copy so callers cannot mutate roster state.
func (s Student) clone() Student {
	c := s
	c.Attendance = make(map[string]Status, len(s.Attendance))
	for k, v := range s.Attendance {
		c.Attendance[k] = v
	}
	return c
}

// fold returns the case-folded form used for uniqueness checks.
func fold(s string) string {
	return cases.Fold().String(s)
}
