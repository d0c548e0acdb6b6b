package tracker

import (
	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/timeutil"
)

// Messages shown in place of empty lists.
const (
	EmptyRosterMessage  = "No students added yet. Add a student above to get started."
	EmptyHistoryMessage = "No attendance records yet."
)

// RosterEntry is one student with their status on the current date.
type RosterEntry struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	RollNo      string            `json:"rollNo"`
	Status      attendance.Status `json:"status,omitempty"`
	StatusLabel string            `json:"statusLabel"`
}

// RosterView lists the roster in insertion order.
type RosterView struct {
	Date         string        `json:"date"`
	DateLabel    string        `json:"dateLabel"`
	Students     []RosterEntry `json:"students"`
	EmptyMessage string        `json:"emptyMessage,omitempty"`
}

// StatsView summarizes one date.
type StatsView struct {
	Date       string `json:"date"`
	DateLabel  string `json:"dateLabel"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Unmarked   int    `json:"unmarked"`
	Percentage int    `json:"percentage"`
}

// HistoryView lists every date with any record, most recent first.
type HistoryView struct {
	Days         []StatsView `json:"days"`
	EmptyMessage string      `json:"emptyMessage,omitempty"`
}

// DateView is the current editing date.
type DateView struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func statsView(s attendance.DailyStats) StatsView {
	return StatsView{
		Date:       s.Date,
		DateLabel:  timeutil.FormatShort(s.Date),
		Total:      s.Total,
		Present:    s.Present,
		Absent:     s.Absent,
		Unmarked:   s.Unmarked,
		Percentage: s.Percentage,
	}
}

// Roster returns the roster with each student's current-date status.
func (t *Tracker) Roster() RosterView {
	t.mu.Lock()
	defer t.mu.Unlock()

	date := t.store.CurrentDate()
	students := t.store.Students()
	v := RosterView{
		Date:      date,
		DateLabel: timeutil.FormatLong(date),
		Students:  make([]RosterEntry, 0, len(students)),
	}
	for _, st := range students {
		status := st.StatusOn(date)
		v.Students = append(v.Students, RosterEntry{
			ID:          st.ID,
			Name:        st.Name,
			RollNo:      st.RollNo,
			Status:      status,
			StatusLabel: status.Label(),
		})
	}
	if len(students) == 0 {
		v.EmptyMessage = EmptyRosterMessage
	}
	return v
}

// Stats returns the statistics for the current date.
func (t *Tracker) Stats() StatsView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return statsView(t.store.DailyStats(t.store.CurrentDate()))
}

// StatsFor returns the statistics for any date key.
func (t *Tracker) StatsFor(date string) (StatsView, error) {
	if !timeutil.IsDateKey(date) {
		return StatsView{}, shared.ErrInvalidDate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return statsView(t.store.DailyStats(date)), nil
}

// History returns per-date statistics, most recent first.
func (t *Tracker) History() HistoryView {
	t.mu.Lock()
	defer t.mu.Unlock()

	days := t.store.History()
	v := HistoryView{Days: make([]StatsView, 0, len(days))}
	for _, d := range days {
		v.Days = append(v.Days, statsView(d))
	}
	if len(days) == 0 {
		v.EmptyMessage = EmptyHistoryMessage
	}
	return v
}

// CurrentDate returns the editing date.
func (t *Tracker) CurrentDate() DateView {
	t.mu.Lock()
	defer t.mu.Unlock()
	date := t.store.CurrentDate()
	return DateView{Date: date, Label: timeutil.FormatLong(date)}
}

// Student returns one student by id.
func (t *Tracker) Student(id string) (attendance.Student, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Student(id)
}
