package dto

// InstanceRequest creates or replaces a group instance.
type InstanceRequest struct {
	SlotID            *string `json:"slot_id" validate:"omitempty,uuid"`
	PackageID         string  `json:"package_id" validate:"required"`
	Label             string  `json:"label" validate:"required,max=120"`
	DayOfWeek         string  `json:"day_of_week"`
	StartTime         string  `json:"start_time" validate:"required"`
	DurationMinutes   int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	KeyStage          string  `json:"key_stage" validate:"omitempty,max=20"`
	GroupType         string  `json:"group_type" validate:"required,oneof=Standard Enhanced"`
	AssignedTutorID   *string `json:"assigned_tutor_id" validate:"omitempty,uuid"`
	IsBookingEnabled  bool    `json:"is_booking_enabled"`
	SessionDate       *string `json:"session_date"`
	ClassroomURL      *string `json:"classroom_url" validate:"omitempty,url"`
	ClassroomProvider *string `json:"classroom_provider"`
	ClassroomNotes    *string `json:"classroom_notes"`
	RecordingURL      *string `json:"recording_url" validate:"omitempty,url"`
}

// ClassroomRequest edits the live link of one instance.
type ClassroomRequest struct {
	ClassroomURL      *string `json:"classroom_url" validate:"omitempty,url"`
	ClassroomProvider *string `json:"classroom_provider" validate:"omitempty,max=60"`
	ClassroomNotes    *string `json:"classroom_notes" validate:"omitempty,max=500"`
	RecordingURL      *string `json:"recording_url" validate:"omitempty,url"`
}

// ListInstancesQuery filters instance listings.
type ListInstancesQuery struct {
	SlotID   string `form:"slot_id"`
	DateFrom string `form:"from"`
	DateTo   string `form:"to"`
}
