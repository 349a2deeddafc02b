package models

import "time"

// GroupFormat is the size tier of a teaching group.
type GroupFormat string

const (
	GroupFormatStandard GroupFormat = "Standard"
	GroupFormatEnhanced GroupFormat = "Enhanced"
)

// Capacity returns the maximum group size for the format.
func (f GroupFormat) Capacity() int {
	switch f {
	case GroupFormatEnhanced:
		return 8
	case GroupFormatStandard:
		return 14
	}
	return 0
}

// RecurringSlot is a weekly template from which dated instances are materialized.
type RecurringSlot struct {
	ID                string      `db:"id" json:"id"`
	PackageID         string      `db:"package_id" json:"package_id"`
	Label             string      `db:"label" json:"label"`
	DayOfWeek         string      `db:"day_of_week" json:"day_of_week"`
	StartTime         string      `db:"start_time" json:"start_time"`
	DurationMinutes   int         `db:"duration_minutes" json:"duration_minutes"`
	KeyStage          string      `db:"key_stage" json:"key_stage"`
	GroupType         GroupFormat `db:"group_type" json:"group_type"`
	MaxCapacity       int         `db:"max_capacity" json:"max_capacity"`
	AssignedTutorID   *string     `db:"assigned_tutor_id" json:"assigned_tutor_id,omitempty"`
	IsBookingEnabled  bool        `db:"is_booking_enabled" json:"is_booking_enabled"`
	ClassroomProvider *string     `db:"classroom_provider" json:"classroom_provider,omitempty"`
	ClassroomURL      *string     `db:"classroom_url" json:"classroom_url,omitempty"`
	ClassroomNotes    *string     `db:"classroom_notes" json:"classroom_notes,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}

// SlotFilter narrows slot listings.
type SlotFilter struct {
	PackageID     string
	BookingOnly   bool
	AssignedTutor string
}
