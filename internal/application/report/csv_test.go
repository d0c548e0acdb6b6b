package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
)

func newStore(t *testing.T, date string) *attendance.Store {
	t.Helper()
	s, err := attendance.NewStore(date)
	require.NoError(t, err)
	return s
}

func TestExport_SingleDate(t *testing.T) {
	s := newStore(t, "2024-01-10")
	alice, err := s.AddStudent("Alice", "R1")
	require.NoError(t, err)
	bob, err := s.AddStudent("Bob", "R2")
	require.NoError(t, err)
	_, err = s.MarkAttendance(alice.ID, attendance.StatusPresent)
	require.NoError(t, err)
	_, err = s.MarkAttendance(bob.ID, attendance.StatusAbsent)
	require.NoError(t, err)

	rep, err := Export(s)
	require.NoError(t, err)

	want := "Student Name,Roll No,Wed, Jan 10, 2024\n" +
		"Alice,R1,P\n" +
		"Bob,R2,A\n" +
		"\n\nDaily Summary\n" +
		"Date,Total Students,Present,Absent,Percentage\n" +
		"Wed, Jan 10, 2024,2,1,1,50%\n"
	assert.Equal(t, want, string(rep.Body))
	assert.Equal(t, FileName, rep.FileName)
	assert.Equal(t, ContentType, rep.ContentType)
	assert.Equal(t, 2, rep.Students)
	assert.Equal(t, 1, rep.Dates)
}

func TestExport_DatesAscendingWithUnmarked(t *testing.T) {
	s := newStore(t, "2024-01-11")
	alice, err := s.AddStudent("Alice", "R1")
	require.NoError(t, err)
	bob, err := s.AddStudent("Bob", "R2")
	require.NoError(t, err)

	_, err = s.MarkAttendance(alice.ID, attendance.StatusPresent)
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentDate("2024-01-09"))
	_, err = s.MarkAttendance(bob.ID, attendance.StatusPresent)
	require.NoError(t, err)

	rep, err := Export(s)
	require.NoError(t, err)
	lines := strings.Split(string(rep.Body), "\n")

	assert.Equal(t, "Student Name,Roll No,Tue, Jan 9, 2024,Thu, Jan 11, 2024", lines[0])
	assert.Equal(t, "Alice,R1,-,P", lines[1])
	assert.Equal(t, "Bob,R2,P,-", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Daily Summary", lines[5])
	assert.Equal(t, "Tue, Jan 9, 2024,2,1,0,50%", lines[7])
	assert.Equal(t, "Thu, Jan 11, 2024,2,1,0,50%", lines[8])
}

func TestExport_NoDates(t *testing.T) {
	s := newStore(t, "2024-01-10")
	_, err := s.AddStudent("Alice", "R1")
	require.NoError(t, err)

	rep, err := Export(s)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(rep.Body), "Student Name,Roll No\nAlice,R1\n"))
	assert.True(t, strings.HasSuffix(string(rep.Body), "Date,Total Students,Present,Absent,Percentage\n"))
}

func TestExport_EmptyRoster(t *testing.T) {
	_, err := Export(newStore(t, "2024-01-10"))
	assert.ErrorIs(t, err, shared.ErrNothingToExport)
	assert.True(t, shared.IsEmptyOperation(err))
}

func TestExport_QuotesUnsafeFields(t *testing.T) {
	s := newStore(t, "2024-01-10")
	_, err := s.AddStudent(`Doe, "Jo"`, "R1")
	require.NoError(t, err)

	rep, err := Export(s)
	require.NoError(t, err)
	assert.Contains(t, string(rep.Body), "\n\"Doe, \"\"Jo\"\"\",R1\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteCSV_WriterError(t *testing.T) {
	s := newStore(t, "2024-01-10")
	_, err := s.AddStudent("Alice", "R1")
	require.NoError(t, err)

	_, _, err = WriteCSV(failingWriter{}, s)
	assert.EqualError(t, err, "closed")
}
