package attendance

import (
	"math"
	"sort"
)

// DailyStats summarizes one date across the whole roster.
type DailyStats struct {
	Date       string
	Total      int
	Present    int
	Absent     int
	Unmarked   int
	Percentage int
}

// Percentage returns round(present/total*100), or 0 for an empty roster.
func Percentage(present, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// DailyStats computes the statistics for date. Total is the current roster
// size, whether or not each student was marked on that date.
func (s *Store) DailyStats(date string) DailyStats {
	st := DailyStats{Date: date, Total: len(s.students)}
	for _, student := range s.students {
		switch student.Attendance[date] {
		case StatusPresent:
			st.Present++
		case StatusAbsent:
			st.Absent++
		}
	}
	st.Unmarked = st.Total - st.Present - st.Absent
	st.Percentage = Percentage(st.Present, st.Total)
	return st
}

// Dates returns every date key present in any student's attendance map,
// oldest first.
func (s *Store) Dates() []string {
	seen := make(map[string]struct{})
	for _, student := range s.students {
		for date := range student.Attendance {
			seen[date] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// History returns DailyStats for every date with any record, most recent
// first.
func (s *Store) History() []DailyStats {
	dates := s.Dates()
	out := make([]DailyStats, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		out = append(out, s.DailyStats(dates[i]))
	}
	return out
}
