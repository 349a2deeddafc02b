package dto

import "github.com/noah-isme/tuition-portal-api/internal/models"

// ListProfilesQuery captures query params for the admin user list.
type ListProfilesQuery struct {
	Role     string `form:"role"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// UpdateRoleRequest changes a user's role and, for parents, the linked student.
type UpdateRoleRequest struct {
	Role         models.UserRole `json:"role" validate:"required,oneof=STUDENT PARENT TUTOR ADMIN"`
	LinkedUserID *string         `json:"linked_user_id" validate:"omitempty,uuid"`
}
