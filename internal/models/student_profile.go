package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// StudentProfile holds the academic onboarding answers. Booking requires one.
type StudentProfile struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	School       string         `db:"school" json:"school"`
	YearGroup    string         `db:"year_group" json:"year_group"`
	ExamBoard    string         `db:"exam_board" json:"exam_board"`
	Strengths    string         `db:"strengths" json:"strengths"`
	Weaknesses   string         `db:"weaknesses" json:"weaknesses"`
	TargetGrades types.JSONText `db:"target_grades" json:"target_grades"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
