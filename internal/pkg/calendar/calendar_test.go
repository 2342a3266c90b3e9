package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single weekday", "2024-03-04", "2024-03-04", 1},
		{"full week", "2024-03-04", "2024-03-10", 5},
		{"weekend only", "2024-03-09", "2024-03-10", 0},
		{"friday to monday", "2024-03-08", "2024-03-11", 2},
		{"march 2024", "2024-03-01", "2024-03-31", 21},
		{"february 2024", "2024-02-01", "2024-02-29", 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BusinessDays(day(tt.start), day(tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBusinessDays_InvalidRange(t *testing.T) {
	_, err := BusinessDays(day("2024-03-05"), day("2024-03-04"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDays(t *testing.T) {
	days, err := Days(day("2024-02-28"), day("2024-03-01"))
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, day("2024-02-29"), days[1])
}

func TestDateIn(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	instant := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, day("2024-03-05"), DateIn(instant, loc))
	assert.Equal(t, day("2024-03-04"), DateIn(instant, nil))
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(day("2024-03-04"), day("2024-03-06"), day("2024-03-06"), day("2024-03-08")))
	assert.False(t, Overlaps(day("2024-03-04"), day("2024-03-05"), day("2024-03-06"), day("2024-03-08")))
	assert.True(t, Overlaps(day("2024-03-01"), day("2024-03-31"), day("2024-03-10"), day("2024-03-11")))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(day("2024-03-04"), day("2024-03-06"), day("2024-03-04")))
	assert.True(t, Contains(day("2024-03-04"), day("2024-03-06"), day("2024-03-06").Add(15*time.Hour)))
	assert.False(t, Contains(day("2024-03-04"), day("2024-03-06"), day("2024-03-07")))
}
