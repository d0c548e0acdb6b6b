package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyStats_Example(t *testing.T) {
	s := newTestStore(t)
	alice, _ := s.AddStudent("Alice", "R1")
	bob, _ := s.AddStudent("Bob", "R2")
	s.MarkAttendance(alice.ID, StatusPresent)
	s.MarkAttendance(bob.ID, StatusAbsent)

	assert.Equal(t, DailyStats{
		Date:       "2024-01-10",
		Total:      2,
		Present:    1,
		Absent:     1,
		Unmarked:   0,
		Percentage: 50,
	}, s.DailyStats("2024-01-10"))
}

func TestDailyStats_EmptyRoster(t *testing.T) {
	s := newTestStore(t)
	st := s.DailyStats("2024-01-10")
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0, st.Percentage)
}

func TestDailyStats_CountsInvariant(t *testing.T) {
	s := newTestStore(t)
	ids := make([]string, 0, 7)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		st, err := s.AddStudent(name, "R"+name)
		require.NoError(t, err)
		ids = append(ids, st.ID)
	}
	s.MarkAttendance(ids[0], StatusPresent)
	s.MarkAttendance(ids[1], StatusPresent)
	s.MarkAttendance(ids[2], StatusAbsent)

	st := s.DailyStats("2024-01-10")
	assert.LessOrEqual(t, st.Present+st.Absent, st.Total)
	assert.Equal(t, st.Total-st.Present-st.Absent, st.Unmarked)
	assert.Equal(t, 4, st.Unmarked)
	assert.Equal(t, 29, st.Percentage) // 2/7 = 28.57
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		present, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 3, 100},
	}
	for _, tt := range tests {
		got := Percentage(tt.present, tt.total)
		assert.Equal(t, tt.want, got, "%d/%d", tt.present, tt.total)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestHistory_DescendingUnionOfDates(t *testing.T) {
	s := newTestStore(t)
	alice, _ := s.AddStudent("Alice", "R1")
	bob, _ := s.AddStudent("Bob", "R2")

	s.MarkAttendance(alice.ID, StatusPresent) // 2024-01-10
	require.NoError(t, s.SetCurrentDate("2023-12-31"))
	s.MarkAttendance(bob.ID, StatusAbsent)
	require.NoError(t, s.SetCurrentDate("2024-02-01"))
	require.NoError(t, s.MarkAll(StatusPresent))

	assert.Equal(t, []string{"2023-12-31", "2024-01-10", "2024-02-01"}, s.Dates())

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, "2024-02-01", history[0].Date)
	assert.Equal(t, 100, history[0].Percentage)
	assert.Equal(t, "2024-01-10", history[1].Date)
	assert.Equal(t, 1, history[1].Present)
	assert.Equal(t, 1, history[1].Unmarked)
	assert.Equal(t, "2023-12-31", history[2].Date)
	assert.Equal(t, 1, history[2].Absent)
	assert.Equal(t, 0, history[2].Percentage)
}

func TestHistory_EmptyWhenNothingMarked(t *testing.T) {
	s := newTestStore(t)
	s.AddStudent("Alice", "R1")
	assert.Empty(t, s.History())
	assert.Empty(t, s.Dates())
}
