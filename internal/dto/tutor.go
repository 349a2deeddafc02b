package dto

// CreateTutorRequest provisions a tutor account.
type CreateTutorRequest struct {
	FullName string   `json:"full_name" validate:"required,max=120"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=40"`
	Subjects []string `json:"subjects" validate:"omitempty,dive,required"`
}

// TutorDirectoryRequest creates or replaces a directory entry.
type TutorDirectoryRequest struct {
	FirstName           string   `json:"first_name" validate:"required,max=80"`
	LastName            string   `json:"last_name" validate:"required,max=80"`
	Email               string   `json:"email" validate:"required,email"`
	Phone               *string  `json:"phone"`
	Address             *string  `json:"address"`
	Location            *string  `json:"location"`
	Subjects            []string `json:"subjects"`
	YearsGCSEExperience *string  `json:"years_gcse_experience"`
	HourlyRateGroupGCSE *string  `json:"hourly_rate_group_gcse"`
	WeeklyAvailability  *string  `json:"weekly_availability"`
	DBSCertificate      *string  `json:"dbs_certificate"`
	DBSNotes            *string  `json:"dbs_notes"`
}

// TutorApplicationRequest is a public application to teach.
type TutorApplicationRequest struct {
	FullName        string   `json:"full_name" validate:"required,max=120"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           *string  `json:"phone"`
	Subjects        []string `json:"subjects" validate:"required,min=1"`
	KeyStages       []string `json:"key_stages"`
	DBSStatus       *string  `json:"dbs_status"`
	ExperienceNotes *string  `json:"experience_notes" validate:"omitempty,max=2000"`
}

// ApplicationStatusRequest moves an application through review.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=New Reviewed Approved Activated Rejected"`
}
