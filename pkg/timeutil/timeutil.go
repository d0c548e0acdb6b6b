// Package timeutil handles calendar-date keys: parsing, validation, display
// formatting and "today" in the configured timezone.
//
// A date key is an ISO 8601 calendar date (YYYY-MM-DD) with no time part.
// Keys compare lexicographically in chronological order, so they can be
// sorted as plain strings.
package timeutil

import (
	"fmt"
	"time"
)

// Layouts used by the tracker.
const (
	// DateKeyLayout is the canonical storage layout.
	DateKeyLayout = "2006-01-02"

	// ShortLayout renders "Wed, Jan 10, 2024" for history rows and reports.
	ShortLayout = "Mon, Jan 2, 2006"

	// LongLayout renders "Wednesday, January 10, 2024" for the current date.
	LongLayout = "Monday, January 2, 2006"
)

// ParseDateKey parses a date key. Non-canonical renderings such as
// "2024-1-5" or values with a time part are rejected.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", s, err)
	}
	if t.Format(DateKeyLayout) != s {
		return time.Time{}, fmt.Errorf("parse date key %q: not in YYYY-MM-DD form", s)
	}
	return t, nil
}

// IsDateKey reports whether s is a valid date key.
func IsDateKey(s string) bool {
	_, err := ParseDateKey(s)
	return err == nil
}

// DateKey returns the date key of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// Today returns today's date key in loc. A nil loc means UTC.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(time.Now().In(loc))
}

// FormatShort renders a date key as "Wed, Jan 10, 2024". Invalid keys are
// returned unchanged.
func FormatShort(key string) string {
	return format(key, ShortLayout)
}

// FormatLong renders a date key as "Wednesday, January 10, 2024". Invalid
// keys are returned unchanged.
func FormatLong(key string) string {
	return format(key, LongLayout)
}

func format(key, layout string) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format(layout)
}

// LoadLocation resolves a timezone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
