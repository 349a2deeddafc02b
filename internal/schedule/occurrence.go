package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Block geometry: four weekly sessions.
const (
	BlockWeeks = 4
	BlockDays  = BlockWeeks * 7
)

// ErrUnknownWeekday is returned for day names outside Monday..Sunday.
var ErrUnknownWeekday = errors.New("unknown weekday")

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday reads a full English day name, ignoring case and surrounding space.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
	}
	return day, nil
}

// CanonicalWeekday returns the capitalised day name, e.g. "Monday".
func CanonicalWeekday(name string) (string, error) {
	day, err := ParseWeekday(name)
	if err != nil {
		return "", err
	}
	return day.String(), nil
}

// NextWeekday returns the next date falling on day, strictly after today's date.
func NextWeekday(day time.Weekday, today time.Time) time.Time {
	diff := int(day) - int(today.Weekday())
	if diff <= 0 {
		diff += 7
	}
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, diff)
}

// NextOccurrence resolves dayName and returns its next date after today.
func NextOccurrence(dayName string, today time.Time) (time.Time, error) {
	day, err := ParseWeekday(dayName)
	if err != nil {
		return time.Time{}, err
	}
	return NextWeekday(day, today), nil
}

// BlockWindow returns the half-open date range [start, start+28d) covered by a block.
func BlockWindow(start time.Time) (from, until time.Time) {
	return start, start.AddDate(0, 0, BlockDays)
}

// BlockDates returns the four weekly session dates of a block starting at start.
func BlockDates(start time.Time) []time.Time {
	dates := make([]time.Time, 0, BlockWeeks)
	for i := 0; i < BlockWeeks; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i))
	}
	return dates
}

// FormatDate renders a date in the session date wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
