package models

import "time"

// Audit actions recorded for admin operations.
const (
	AuditActionSlotCreate      = "SLOT_CREATE"
	AuditActionSlotUpdate      = "SLOT_UPDATE"
	AuditActionSlotDelete      = "SLOT_DELETE"
	AuditActionInstanceDelete  = "INSTANCE_DELETE"
	AuditActionBlockGenerate   = "BLOCK_GENERATE"
	AuditActionBlockVerify     = "BLOCK_VERIFY"
	AuditActionClassroomAssign = "CLASSROOM_ASSIGN"
	AuditActionTutorCreate     = "TUTOR_CREATE"
	AuditActionRoleUpdate      = "ROLE_UPDATE"
	AuditActionSettingsUpdate  = "SETTINGS_UPDATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RequestMeta carries the client details stamped onto audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}
