package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of session dates.
const DateLayout = "2006-01-02"

var (
	twelveHourPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(am|pm)$`)
	clockPattern      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	datePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseClock reads "17:00", "17:00:00", "5:00pm" or "05:00 PM" into hour and minute.
func ParseClock(raw string) (hour, minute int, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, false
	}

	if m := twelveHourPattern.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if h < 1 || h > 12 || mins > 59 {
			return 0, 0, false
		}
		pm := strings.EqualFold(m[3], "pm")
		switch {
		case pm && h < 12:
			h += 12
		case !pm && h == 12:
			h = 0
		}
		return h, mins, true
	}

	if m := clockPattern.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if h > 23 || mins > 59 {
			return 0, 0, false
		}
		return h, mins, true
	}

	return 0, 0, false
}

// NormalizeTime renders a parseable time as HH:MM and returns anything else unchanged.
func NormalizeTime(raw string) string {
	h, m, ok := ParseClock(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseSessionDate accepts only a real calendar date in YYYY-MM-DD form.
func ParseSessionDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if !datePattern.MatchString(raw) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// SessionStart combines a session date and wall-clock start time in loc.
func SessionStart(sessionDate, startTime string, loc *time.Location) (time.Time, bool) {
	d, ok := ParseSessionDate(sessionDate, loc)
	if !ok {
		return time.Time{}, false
	}
	h, m, ok := ParseClock(startTime)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location()), true
}

// FormatSchedule renders "Mon 16 Feb 2026 • 19:00", or "Schedule Pending • 19:00"
// when the date is missing. An absent start time renders as TBC.
func FormatSchedule(sessionDate *string, startTime string) string {
	timePart := "TBC"
	if strings.TrimSpace(startTime) != "" {
		timePart = NormalizeTime(startTime)
	}
	if sessionDate == nil {
		return "Schedule Pending • " + timePart
	}
	d, ok := ParseSessionDate(*sessionDate, time.UTC)
	if !ok {
		return "Schedule Pending • " + timePart
	}
	return d.Format("Mon 2 Jan 2006") + " • " + timePart
}
