package dto

// GenerateBlockRequest materializes a slot's block and applies its classroom link.
type GenerateBlockRequest struct {
	SlotID            string `json:"slot_id" validate:"required,uuid"`
	StartDate         string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ClassroomURL      string `json:"classroom_url" validate:"required,url"`
	ClassroomProvider string `json:"classroom_provider" validate:"omitempty,max=60"`
}

// VerifyBlockRequest marks a student's block paid and applies its classroom link.
type VerifyBlockRequest struct {
	StudentID         string `json:"student_id" validate:"required,uuid"`
	SlotID            string `json:"slot_id" validate:"required,uuid"`
	BlockStartDate    string `json:"block_start_date" validate:"required,datetime=2006-01-02"`
	ClassroomURL      string `json:"classroom_url" validate:"required,url"`
	ClassroomProvider string `json:"classroom_provider" validate:"omitempty,max=60"`
}

// AssignClassroomRequest bulk-assigns a link across the four dated sessions of a block.
type AssignClassroomRequest struct {
	SlotID            string `json:"slot_id" validate:"required,uuid"`
	StartDate         string `json:"start_date" validate:"required,datetime=2006-01-02"`
	ClassroomURL      string `json:"classroom_url" validate:"required,url"`
	ClassroomProvider string `json:"classroom_provider" validate:"omitempty,max=60"`
	Overwrite         bool   `json:"overwrite"`
}

// AssignClassroomResult reports a bulk assignment.
type AssignClassroomResult struct {
	Outcome string   `json:"outcome"`
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Skipped int      `json:"skipped"`
	URL     string   `json:"url,omitempty"`
	Updated []string `json:"updated,omitempty"`
}

// BlockRunResult is the outcome of a generate or verify run.
type BlockRunResult struct {
	RunID           string `json:"run_id"`
	Status          string `json:"status"`
	SessionsUpdated int    `json:"sessions_updated"`
	Message         string `json:"message"`
}

// ListBlockRunsQuery filters run listings.
type ListBlockRunsQuery struct {
	SlotID   string `form:"slot_id"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
