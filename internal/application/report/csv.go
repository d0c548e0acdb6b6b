// Package report renders the attendance store as a downloadable CSV report.
package report

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV REPORT
// Layout:
//
//	Student Name,Roll No,<date>,<date>...
//	<name>,<roll>,P|A|-,...
//	(blank)
//	(blank)
//	Daily Summary
//	Date,Total Students,Present,Absent,Percentage
//	<date>,<total>,<present>,<absent>,<pct>%
//
// Dates run oldest first in both tables and use the short display format.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// FileName is the name offered for the downloaded report.
	FileName = "attendance_report.csv"

	// ContentType is the MIME type of the report.
	ContentType = "text/csv; charset=utf-8"
)

// Report is a rendered export.
type Report struct {
	FileName    string
	ContentType string
	Body        []byte

	Students int
	Dates    int
}

// Source is the read side of the store the exporter needs.
type Source interface {
	Students() []attendance.Student
	Dates() []string
	DailyStats(date string) attendance.DailyStats
}

// Export renders src. It returns shared.ErrNothingToExport when the roster
// is empty.
func Export(src Source) (*Report, error) {
	var buf bytes.Buffer
	students, dates, err := WriteCSV(&buf, src)
	if err != nil {
		return nil, err
	}
	return &Report{
		FileName:    FileName,
		ContentType: ContentType,
		Body:        buf.Bytes(),
		Students:    students,
		Dates:       dates,
	}, nil
}

// WriteCSV writes the report to w and returns how many students and dates
// it covered.
func WriteCSV(w io.Writer, src Source) (students, dates int, err error) {
	roster := src.Students()
	if len(roster) == 0 {
		return 0, 0, shared.ErrNothingToExport
	}
	keys := src.Dates()

	var b strings.Builder

	b.WriteString("Student Name,Roll No")
	for _, d := range keys {
		b.WriteByte(',')
		b.WriteString(timeutil.FormatShort(d))
	}
	b.WriteByte('\n')

	for _, st := range roster {
		b.WriteString(field(st.Name))
		b.WriteByte(',')
		b.WriteString(field(st.RollNo))
		for _, d := range keys {
			b.WriteByte(',')
			b.WriteString(st.StatusOn(d).Code())
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n\nDaily Summary\n")
	b.WriteString("Date,Total Students,Present,Absent,Percentage\n")
	for _, d := range keys {
		s := src.DailyStats(d)
		b.WriteString(timeutil.FormatShort(d))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(s.Total))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(s.Present))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(s.Absent))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(s.Percentage))
		b.WriteString("%\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, 0, err
	}
	return len(roster), len(keys), nil
}

// field quotes user-entered text only when it would break the row.
func field(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
