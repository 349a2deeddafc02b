package schedule

import (
	"fmt"
	"time"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

// AccessState is the join-window phase of a dated session.
type AccessState string

const (
	StateCountdown AccessState = "COUNTDOWN"
	StateJoin      AccessState = "JOIN"
	StatePast      AccessState = "PAST"
)

// Labels shown for each phase.
const (
	LabelTBC      = "TBC"
	LabelJoin     = "Join Live Classroom"
	LabelComplete = "Session Complete"
)

// SessionAccess is derived per evaluation and never stored.
type SessionAccess struct {
	State    AccessState `json:"state"`
	Label    string      `json:"label"`
	Enabled  bool        `json:"enabled"`
	StartsAt *time.Time  `json:"starts_at,omitempty"`
}

// WindowPolicy bounds the join window around a session start.
type WindowPolicy struct {
	OpensEarly      time.Duration
	ClosesLate      time.Duration
	DefaultDuration time.Duration
}

// DefaultPolicy opens 10 minutes early and closes 15 minutes after the session ends.
var DefaultPolicy = WindowPolicy{
	OpensEarly:      10 * time.Minute,
	ClosesLate:      15 * time.Minute,
	DefaultDuration: 60 * time.Minute,
}

func (p WindowPolicy) withDefaults() WindowPolicy {
	if p.OpensEarly <= 0 {
		p.OpensEarly = DefaultPolicy.OpensEarly
	}
	if p.ClosesLate <= 0 {
		p.ClosesLate = DefaultPolicy.ClosesLate
	}
	if p.DefaultDuration <= 0 {
		p.DefaultDuration = DefaultPolicy.DefaultDuration
	}
	return p
}

// Evaluate classifies inst at now using the default policy.
func Evaluate(inst models.GroupInstance, now time.Time) SessionAccess {
	return DefaultPolicy.Evaluate(inst, now)
}

// Evaluate classifies inst at now. The session start is read as wall-clock
// time in now's location. Instances without a usable date or start time are TBC.
func (p WindowPolicy) Evaluate(inst models.GroupInstance, now time.Time) SessionAccess {
	p = p.withDefaults()
	tbc := SessionAccess{State: StateCountdown, Label: LabelTBC}

	if inst.SessionDate == nil {
		return tbc
	}
	start, ok := SessionStart(*inst.SessionDate, inst.StartTime, now.Location())
	if !ok {
		return tbc
	}

	duration := time.Duration(inst.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = p.DefaultDuration
	}

	diff := start.Sub(now)
	closes := -(duration + p.ClosesLate)

	access := SessionAccess{StartsAt: &start}
	switch {
	case diff <= p.OpensEarly && diff >= closes:
		access.State = StateJoin
		access.Label = LabelJoin
		access.Enabled = true
	case diff < closes:
		access.State = StatePast
		access.Label = LabelComplete
	default:
		access.State = StateCountdown
		access.Label = CountdownLabel(diff - p.OpensEarly)
	}
	return access
}

// CountdownLabel formats the time until the window opens, rounding down.
func CountdownLabel(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	total := int(remaining / time.Minute)
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	minutes := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("Opens in %dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("Opens in %dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("Opens in %dm", minutes)
	}
}
