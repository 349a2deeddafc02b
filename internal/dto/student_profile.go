package dto

// StudentProfileRequest holds the onboarding answers.
type StudentProfileRequest struct {
	School       string            `json:"school" validate:"required,max=200"`
	YearGroup    string            `json:"year_group" validate:"required,max=20"`
	ExamBoard    string            `json:"exam_board" validate:"required,max=40"`
	Strengths    string            `json:"strengths" validate:"max=2000"`
	Weaknesses   string            `json:"weaknesses" validate:"max=2000"`
	TargetGrades map[string]string `json:"target_grades"`
}
