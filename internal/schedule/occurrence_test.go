package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrenceNeverToday(t *testing.T) {
	monday := time.Date(2026, time.February, 16, 9, 30, 0, 0, time.UTC)

	next, err := NextOccurrence("Monday", monday)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-23", FormatDate(next))
}

func TestNextOccurrenceWithinWeek(t *testing.T) {
	monday := time.Date(2026, time.February, 16, 23, 59, 0, 0, time.UTC)

	cases := map[string]string{
		"Tuesday":    "2026-02-17",
		"sunday":     "2026-02-22",
		" SATURDAY ": "2026-02-21",
	}
	for name, want := range cases {
		next, err := NextOccurrence(name, monday)
		require.NoError(t, err)
		assert.Equal(t, want, FormatDate(next), name)
	}
}

func TestNextOccurrenceUnknownDay(t *testing.T) {
	_, err := NextOccurrence("Funday", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownWeekday))
}

func TestNextWeekdayAcrossDST(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	saturday := time.Date(2026, time.March, 28, 12, 0, 0, 0, london)

	next := NextWeekday(time.Monday, saturday)
	assert.Equal(t, "2026-03-30", FormatDate(next))
	assert.Equal(t, 0, next.Hour())
}

func TestBlockWindowAndDates(t *testing.T) {
	start := time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)

	from, until := BlockWindow(start)
	assert.Equal(t, "2026-02-16", FormatDate(from))
	assert.Equal(t, "2026-03-16", FormatDate(until))

	dates := BlockDates(start)
	require.Len(t, dates, 4)
	got := []string{FormatDate(dates[0]), FormatDate(dates[1]), FormatDate(dates[2]), FormatDate(dates[3])}
	assert.Equal(t, []string{"2026-02-16", "2026-02-23", "2026-03-02", "2026-03-09"}, got)
	for _, d := range dates {
		assert.True(t, d.Before(until))
	}
}

func TestCanonicalWeekday(t *testing.T) {
	name, err := CanonicalWeekday("wednesday")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", name)
}
