package dto

// SlotRequest creates or replaces a recurring slot.
type SlotRequest struct {
	PackageID         string  `json:"package_id" validate:"required"`
	Label             string  `json:"label" validate:"required,max=120"`
	DayOfWeek         string  `json:"day_of_week" validate:"required"`
	StartTime         string  `json:"start_time" validate:"required"`
	DurationMinutes   int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	KeyStage          string  `json:"key_stage" validate:"omitempty,max=20"`
	GroupType         string  `json:"group_type" validate:"required,oneof=Standard Enhanced"`
	AssignedTutorID   *string `json:"assigned_tutor_id" validate:"omitempty,uuid"`
	IsBookingEnabled  *bool   `json:"is_booking_enabled"`
	ClassroomProvider *string `json:"classroom_provider"`
	ClassroomURL      *string `json:"classroom_url" validate:"omitempty,url"`
	ClassroomNotes    *string `json:"classroom_notes"`
}

// ListSlotsQuery filters slot listings.
type ListSlotsQuery struct {
	PackageID string `form:"package_id"`
}
