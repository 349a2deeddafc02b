package models

import (
	"strings"
	"time"
)

// GroupInstance is one dated occurrence of a slot.
type GroupInstance struct {
	ID                string      `db:"id" json:"id"`
	SlotID            *string     `db:"slot_id" json:"slot_id,omitempty"`
	PackageID         string      `db:"package_id" json:"package_id"`
	Label             string      `db:"label" json:"label"`
	DayOfWeek         string      `db:"day_of_week" json:"day_of_week"`
	StartTime         string      `db:"start_time" json:"start_time"`
	DurationMinutes   int         `db:"duration_minutes" json:"duration_minutes"`
	KeyStage          string      `db:"key_stage" json:"key_stage"`
	GroupType         GroupFormat `db:"group_type" json:"group_type"`
	MaxCapacity       int         `db:"max_capacity" json:"max_capacity"`
	AssignedTutorID   *string     `db:"assigned_tutor_id" json:"assigned_tutor_id,omitempty"`
	TutorName         *string     `db:"tutor_name" json:"tutor_name,omitempty"`
	IsBookingEnabled  bool        `db:"is_booking_enabled" json:"is_booking_enabled"`
	SessionDate       *string     `db:"session_date" json:"session_date,omitempty"`
	ClassroomURL      *string     `db:"classroom_url" json:"classroom_url,omitempty"`
	ClassroomProvider *string     `db:"classroom_provider" json:"classroom_provider,omitempty"`
	ClassroomNotes    *string     `db:"classroom_notes" json:"classroom_notes,omitempty"`
	RecordingURL      *string     `db:"recording_url" json:"recording_url,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}

// HasClassroomURL reports whether a non-blank live link is set.
func (g GroupInstance) HasClassroomURL() bool {
	return g.ClassroomURL != nil && strings.TrimSpace(*g.ClassroomURL) != ""
}

// InstanceFilter narrows instance listings.
type InstanceFilter struct {
	IDs         []string
	SlotID      string
	TutorID     string
	DateFrom    string
	DateTo      string
	SessionDays []string
}

// ClassroomUpdate changes the live link details of one instance.
type ClassroomUpdate struct {
	ClassroomURL      *string `db:"classroom_url"`
	ClassroomProvider *string `db:"classroom_provider"`
	ClassroomNotes    *string `db:"classroom_notes"`
	RecordingURL      *string `db:"recording_url"`
}
