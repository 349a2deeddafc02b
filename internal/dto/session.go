package dto

// SessionNoteRequest records what was covered in a session.
type SessionNoteRequest struct {
	InstanceID     string  `json:"instance_id" validate:"required,uuid"`
	SessionTitle   string  `json:"session_title" validate:"required,max=200"`
	SessionSummary string  `json:"session_summary" validate:"required"`
	Homework       *string `json:"homework"`
}

// AttendanceMark is one student's mark in a register submission.
type AttendanceMark struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"omitempty,attendance_status"`
	Note      string `json:"note" validate:"max=500"`
}

// SaveAttendanceRequest submits the register of an instance.
type SaveAttendanceRequest struct {
	Records []AttendanceMark `json:"records" validate:"dive"`
}
