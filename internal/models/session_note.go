package models

import "time"

// SessionNote is a tutor's write-up of one delivered session.
type SessionNote struct {
	ID             string    `db:"id" json:"id"`
	InstanceID     string    `db:"instance_id" json:"instance_id"`
	TutorID        string    `db:"tutor_id" json:"tutor_id"`
	SessionTitle   string    `db:"session_title" json:"session_title"`
	SessionSummary string    `db:"session_summary" json:"session_summary"`
	Homework       *string   `db:"homework" json:"homework,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
