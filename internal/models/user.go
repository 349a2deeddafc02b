package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleParent  UserRole = "PARENT"
	RoleTutor   UserRole = "TUTOR"
	RoleAdmin   UserRole = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// IsStaff is true for roles that manage sessions rather than attend them.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleTutor
}

// Profile mirrors a row of the profiles table owned by the auth backend.
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        *string   `db:"email" json:"email,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	LinkedUserID *string   `db:"linked_user_id" json:"linked_user_id,omitempty"`
	NeedsReset   bool      `db:"needs_reset" json:"needs_reset"`
	TenantID     *string   `db:"tenant_id" json:"tenant_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProfileFilter captures filtering criteria for listing profiles.
type ProfileFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
