package dto

// AnnouncementRequest publishes a dashboard announcement.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// SettingsRequest updates the platform branding.
type SettingsRequest struct {
	SupportEmail string `json:"support_email" validate:"required,email"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	CompanyName  string `json:"company_name" validate:"required,max=120"`
}
