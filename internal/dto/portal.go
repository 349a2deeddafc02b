package dto

import (
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
)

// PortalSession is one instance as seen by the caller, with its evaluated access state.
type PortalSession struct {
	Instance       models.GroupInstance   `json:"instance"`
	Schedule       string                 `json:"schedule"`
	Access         schedule.SessionAccess `json:"access"`
	Gate           schedule.GateDecision  `json:"gate"`
	PaymentStatus  *models.PaymentStatus  `json:"payment_status,omitempty"`
	PendingRenewal bool                   `json:"pending_renewal"`
}

// PortalSessions is the portal payload evaluated at one instant.
type PortalSessions struct {
	EvaluatedAt string          `json:"evaluated_at"`
	Sessions    []PortalSession `json:"sessions"`
}

// JoinResponse carries the live link once the gate allows joining.
type JoinResponse struct {
	InstanceID        string  `json:"instance_id"`
	ClassroomURL      string  `json:"classroom_url"`
	ClassroomProvider *string `json:"classroom_provider,omitempty"`
	Label             string  `json:"label"`
}
