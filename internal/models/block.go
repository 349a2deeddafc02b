package models

import "time"

// PaymentBlock is four consecutive enrollments of one student in one slot.
type PaymentBlock struct {
	StudentID      string       `json:"student_id"`
	StudentName    string       `json:"student_name"`
	SlotID         string       `json:"slot_id"`
	PackageID      string       `json:"package_id"`
	PackageName    string       `json:"package_name"`
	BlockStartDate string       `json:"block_start_date"`
	TotalCount     int          `json:"total_count"`
	PaidCount      int          `json:"paid_count"`
	PendingCount   int          `json:"pending_count"`
	Enrollments    []Enrollment `json:"enrollments"`
}

// FullyPaid reports whether every enrollment in the block is Paid.
func (b PaymentBlock) FullyPaid() bool {
	return b.TotalCount > 0 && b.PendingCount == 0
}

// BlockRunKind names the admin workflow a run belongs to.
type BlockRunKind string

const (
	BlockRunGenerate BlockRunKind = "GENERATE"
	BlockRunVerify   BlockRunKind = "VERIFY"
)

// BlockRunStatus tracks progress of a multi-step block workflow.
type BlockRunStatus string

const (
	BlockRunPending           BlockRunStatus = "PENDING"
	BlockRunBlockEnsured      BlockRunStatus = "BLOCK_ENSURED"
	BlockRunCompleted         BlockRunStatus = "COMPLETED"
	BlockRunNoSessionsUpdated BlockRunStatus = "NO_SESSIONS_UPDATED"
	BlockRunPartiallyApplied  BlockRunStatus = "PARTIALLY_APPLIED"
	BlockRunFailed            BlockRunStatus = "FAILED"
	// BlockRunTimedOut means the first step outlived the call timeout and its outcome is
	// still pending. The run moves on once the step settles.
	BlockRunTimedOut BlockRunStatus = "TIMED_OUT"
)

// Terminal reports whether no further step will run.
func (s BlockRunStatus) Terminal() bool {
	switch s {
	case BlockRunCompleted, BlockRunNoSessionsUpdated, BlockRunPartiallyApplied, BlockRunFailed:
		return true
	}
	return false
}

// BlockRun is the persisted record of a generate or verify workflow.
type BlockRun struct {
	ID              string         `db:"id" json:"id"`
	Kind            BlockRunKind   `db:"kind" json:"kind"`
	SlotID          string         `db:"slot_id" json:"slot_id"`
	StudentID       *string        `db:"student_id" json:"student_id,omitempty"`
	BlockStartDate  string         `db:"block_start_date" json:"block_start_date"`
	ClassroomURL    *string        `db:"classroom_url" json:"classroom_url,omitempty"`
	Status          BlockRunStatus `db:"status" json:"status"`
	SessionsUpdated int            `db:"sessions_updated" json:"sessions_updated"`
	ErrorMessage    *string        `db:"error_message" json:"error_message,omitempty"`
	RequestedBy     string         `db:"requested_by" json:"requested_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// BlockRunFilter narrows run listings.
type BlockRunFilter struct {
	SlotID   string
	Status   BlockRunStatus
	Page     int
	PageSize int
}

// ClassroomAssignOutcome describes the result of a bulk classroom link assignment.
type ClassroomAssignOutcome string

const (
	ClassroomAssignUpdated         ClassroomAssignOutcome = "UPDATED"
	ClassroomAssignNoSessionsFound ClassroomAssignOutcome = "NO_SESSIONS_FOUND"
	ClassroomAssignNothingToUpdate ClassroomAssignOutcome = "NO_SESSIONS_REQUIRED_UPDATING"
)
