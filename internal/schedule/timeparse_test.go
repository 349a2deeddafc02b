package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		raw    string
		hour   int
		minute int
		ok     bool
	}{
		{"17:00", 17, 0, true},
		{"17:00:00", 17, 0, true},
		{"5:00pm", 17, 0, true},
		{"05:00 PM", 17, 0, true},
		{"12:15am", 0, 15, true},
		{"12:30 pm", 12, 30, true},
		{"9:05", 9, 5, true},
		{"24:00", 0, 0, false},
		{"13:00pm", 0, 0, false},
		{"7pm", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		h, m, ok := ParseClock(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.hour, h, tc.raw)
			assert.Equal(t, tc.minute, m, tc.raw)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "17:00", NormalizeTime("5:00pm"))
	assert.Equal(t, "09:05", NormalizeTime("9:05"))
	assert.Equal(t, "after school", NormalizeTime("after school"))
}

func TestParseSessionDate(t *testing.T) {
	d, ok := ParseSessionDate("2026-02-16", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Monday, d.Weekday())

	_, ok = ParseSessionDate("2026-2-16", time.UTC)
	assert.False(t, ok)
	_, ok = ParseSessionDate("2026-02-16T00:00:00Z", time.UTC)
	assert.False(t, ok)
}

func TestFormatSchedule(t *testing.T) {
	assert.Equal(t, "Mon 16 Feb 2026 • 19:00", FormatSchedule(strPtr("2026-02-16"), "7:00pm"))
	assert.Equal(t, "Mon 2 Mar 2026 • TBC", FormatSchedule(strPtr("2026-03-02"), ""))
	assert.Equal(t, "Schedule Pending • 19:00", FormatSchedule(nil, "19:00"))
	assert.Equal(t, "Schedule Pending • TBC", FormatSchedule(strPtr("soon"), ""))
}
