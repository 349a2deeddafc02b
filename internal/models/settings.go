package models

import "time"

// PlatformSettings is the singleton branding row (id = 1).
type PlatformSettings struct {
	ID           int        `db:"id" json:"-"`
	SupportEmail string     `db:"support_email" json:"support_email"`
	LogoURL      string     `db:"logo_url" json:"logo_url"`
	CompanyName  string     `db:"company_name" json:"company_name"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// DefaultPlatformSettings is served when the row is missing.
var DefaultPlatformSettings = PlatformSettings{
	ID:           1,
	SupportEmail: "support@goldmindtuition.co.uk",
	CompanyName:  "GoldMind Tuition",
}
