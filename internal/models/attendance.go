package models

import "time"

// AttendanceStatus is the register mark for one student.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether the mark is known.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

// AttendanceRecord is keyed by (instance_id, student_id).
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	InstanceID string           `db:"instance_id" json:"instance_id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	TutorID    string           `db:"tutor_id" json:"tutor_id"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Note       *string          `db:"note" json:"note,omitempty"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// RosterLine is an enrolled student with their register mark, if any.
type RosterLine struct {
	StudentID     string           `json:"student_id"`
	StudentName   string           `json:"student_name"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	Status        AttendanceStatus `json:"status"`
	Note          string           `json:"note,omitempty"`
	Recorded      bool             `json:"recorded"`
}
