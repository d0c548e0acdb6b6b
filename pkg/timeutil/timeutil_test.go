package timeutil

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKey(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"2024-01-10", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-10", false},
		{"2024-01-10T00:00:00Z", false},
		{"", false},
		{"10/01/2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseDateKey(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.valid, IsDateKey(tt.in))
		})
	}
}

func TestFormatShortAndLong(t *testing.T) {
	assert.Equal(t, "Wed, Jan 10, 2024", FormatShort("2024-01-10"))
	assert.Equal(t, "Wednesday, January 10, 2024", FormatLong("2024-01-10"))
	assert.Equal(t, "Sun, Mar 3, 2024", FormatShort("2024-03-03"))
	assert.Equal(t, "garbage", FormatShort("garbage"))
}

func TestDateKeysSortChronologically(t *testing.T) {
	keys := []string{"2024-10-01", "2023-12-31", "2024-02-09", "2024-02-10"}
	sort.Strings(keys)
	assert.Equal(t, []string{"2023-12-31", "2024-02-09", "2024-02-10", "2024-10-01"}, keys)
}

func TestTodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("plus14", 14*60*60)
	key := Today(loc)
	parsed, err := ParseDateKey(key)
	require.NoError(t, err)

	now := time.Now().In(loc)
	assert.Equal(t, now.Year(), parsed.Year())
	assert.Equal(t, now.YearDay(), parsed.YearDay())
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}
