// Package schedule holds the pure session timing rules: time parsing, the
// join-window state machine, the join gate and block date arithmetic.
package schedule

import (
	"fmt"
	"time"
)

// DefaultVenueTimezone is the wall clock sessions are scheduled in.
const DefaultVenueTimezone = "Europe/London"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// VenueClock reports the real time in the venue location.
type VenueClock struct {
	loc *time.Location
}

// NewVenueClock loads the named IANA zone. An empty name uses DefaultVenueTimezone.
func NewVenueClock(tz string) (*VenueClock, error) {
	if tz == "" {
		tz = DefaultVenueTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load venue timezone %q: %w", tz, err)
	}
	return &VenueClock{loc: loc}, nil
}

// Now implements Clock.
func (c *VenueClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the venue location.
func (c *VenueClock) Location() *time.Location {
	return c.loc
}

// SystemClock reports the real time in UTC. Services fall back to it when no venue clock is wired.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns At.
type FixedClock struct {
	At time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.At
}
