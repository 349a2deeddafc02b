package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

// StudentProfileRepository manages the academic onboarding profile of students.
type StudentProfileRepository struct {
	db *sqlx.DB
}

// NewStudentProfileRepository constructs a student profile repository.
func NewStudentProfileRepository(db *sqlx.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

// FindByStudent loads the profile of a student. Missing rows surface sql.ErrNoRows.
func (r *StudentProfileRepository) FindByStudent(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	const query = `SELECT id, student_id, COALESCE(school, '') AS school, COALESCE(year_group, '') AS year_group,
COALESCE(exam_board, '') AS exam_board, COALESCE(strengths, '') AS strengths, COALESCE(weaknesses, '') AS weaknesses,
COALESCE(target_grades, '{}'::jsonb) AS target_grades, created_at
FROM student_profiles WHERE student_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Exists reports whether the student has completed onboarding.
func (r *StudentProfileRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM student_profiles WHERE student_id = $1)`, studentID); err != nil {
		return false, fmt.Errorf("check student profile: %w", err)
	}
	return exists, nil
}

// Create stores the onboarding answers.
func (r *StudentProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	const query = `INSERT INTO student_profiles (id, student_id, school, year_group, exam_board, strengths, weaknesses, target_grades)
VALUES (:id, :student_id, :school, :year_group, :exam_board, :strengths, :weaknesses, :target_grades)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return nil
}
