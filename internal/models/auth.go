package models

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the payload of access tokens minted by the auth backend.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTClaims is the resolved caller attached to a request.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	LinkedUserID string   `json:"linked_user_id,omitempty"`
	jwt.RegisteredClaims
}

// StudentID returns the student the caller acts for. Parents act for their linked student.
func (c *JWTClaims) StudentID() string {
	if c == nil {
		return ""
	}
	if c.Role == RoleParent {
		return c.LinkedUserID
	}
	return c.UserID
}
