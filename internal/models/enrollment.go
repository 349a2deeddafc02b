package models

import "time"

// PaymentStatus of an enrollment. Pending moves to Paid only through admin verification.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
)

// Enrollment links a student to one dated instance.
type Enrollment struct {
	ID            string        `db:"id" json:"id"`
	PackageID     string        `db:"package_id" json:"package_id"`
	InstanceID    string        `db:"instance_id" json:"instance_id"`
	StudentID     *string       `db:"student_id" json:"student_id,omitempty"`
	StudentName   *string       `db:"student_name" json:"student_name,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	EnrolledAt    time.Time     `db:"enrolled_at" json:"enrolled_at"`
}

// IsPaid treats a blank status as Pending.
func (e Enrollment) IsPaid() bool {
	return e.PaymentStatus == PaymentStatusPaid
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID   string
	InstanceIDs []string
}

// RosterEntry is an enrollment joined with its instance schedule for block grouping.
type RosterEntry struct {
	Enrollment
	SlotID      *string `db:"slot_id" json:"slot_id,omitempty"`
	SessionDate *string `db:"session_date" json:"session_date,omitempty"`
}
