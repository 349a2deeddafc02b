package models

import (
	"time"

	"github.com/lib/pq"
)

// TutorDirectoryEntry is a row of the tutors registry.
type TutorDirectoryEntry struct {
	ID                  string         `db:"id" json:"id"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	TimestampSubmitted  *time.Time     `db:"timestamp_submitted" json:"timestamp_submitted,omitempty"`
	FirstName           string         `db:"first_name" json:"first_name"`
	LastName            string         `db:"last_name" json:"last_name"`
	Email               string         `db:"email" json:"email"`
	Phone               *string        `db:"phone" json:"phone,omitempty"`
	Address             *string        `db:"address" json:"address,omitempty"`
	Location            *string        `db:"location" json:"location,omitempty"`
	Subjects            pq.StringArray `db:"subjects" json:"subjects"`
	YearsGCSEExperience *string        `db:"years_gcse_experience" json:"years_gcse_experience,omitempty"`
	HourlyRateGroupGCSE *string        `db:"hourly_rate_group_gcse" json:"hourly_rate_group_gcse,omitempty"`
	WeeklyAvailability  *string        `db:"weekly_availability" json:"weekly_availability,omitempty"`
	DBSCertificate      *string        `db:"dbs_certificate" json:"dbs_certificate,omitempty"`
	DBSNotes            *string        `db:"dbs_notes" json:"dbs_notes,omitempty"`
}

// ApplicationStatus is the review state of a tutor application.
type ApplicationStatus string

const (
	ApplicationNew       ApplicationStatus = "New"
	ApplicationReviewed  ApplicationStatus = "Reviewed"
	ApplicationApproved  ApplicationStatus = "Approved"
	ApplicationActivated ApplicationStatus = "Activated"
	ApplicationRejected  ApplicationStatus = "Rejected"
)

// ApplicationSource records where an application came from.
type ApplicationSource string

const (
	ApplicationSourceImport     ApplicationSource = "import"
	ApplicationSourceGoogleForm ApplicationSource = "google_form"
	ApplicationSourcePlatform   ApplicationSource = "platform"
)

// TutorApplication is a prospective tutor's submission.
type TutorApplication struct {
	ID              string            `db:"id" json:"id"`
	FullName        string            `db:"full_name" json:"full_name"`
	Email           string            `db:"email" json:"email"`
	Phone           *string           `db:"phone" json:"phone,omitempty"`
	Subjects        pq.StringArray    `db:"subjects" json:"subjects"`
	KeyStages       pq.StringArray    `db:"key_stages" json:"key_stages"`
	DBSStatus       *string           `db:"dbs_status" json:"dbs_status,omitempty"`
	ExperienceNotes *string           `db:"experience_notes" json:"experience_notes,omitempty"`
	Status          ApplicationStatus `db:"status" json:"status"`
	Source          ApplicationSource `db:"source" json:"source"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
}

// CreatedTutor is returned after a tutor account has been provisioned.
type CreatedTutor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
