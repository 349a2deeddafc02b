package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const enrollmentColumns = `e.id, e.package_id, e.instance_id, e.student_id, e.student_name, e.notes,
COALESCE(NULLIF(e.payment_status, ''), 'Pending') AS payment_status, e.enrolled_at`

// EnrollmentRepository reads enrollments. Rows are written only by the booking procedures.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments newest first.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if len(filter.InstanceIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.instance_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.InstanceIDs))
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY e.enrolled_at DESC`

	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindForStudent returns the student's enrollment in an instance. Missing rows surface sql.ErrNoRows.
func (r *EnrollmentRepository) FindForStudent(ctx context.Context, instanceID, studentID string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE e.instance_id = $1 AND e.student_id = $2
ORDER BY e.enrolled_at DESC LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, instanceID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListByInstance returns the roster of one instance ordered by student name.
func (r *EnrollmentRepository) ListByInstance(ctx context.Context, instanceID string) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE e.instance_id = $1 ORDER BY e.student_name ASC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, instanceID); err != nil {
		return nil, fmt.Errorf("list instance enrollments: %w", err)
	}
	return enrollments, nil
}

// ListRoster returns every enrollment joined with the slot and date of its instance.
// Enrollments whose instance has no slot are skipped.
func (r *EnrollmentRepository) ListRoster(ctx context.Context) ([]models.RosterEntry, error) {
	query := `SELECT ` + enrollmentColumns + `, gi.slot_id, gi.session_date::text AS session_date
FROM enrollments e
JOIN group_instances gi ON gi.id = e.instance_id
WHERE gi.slot_id IS NOT NULL
ORDER BY gi.session_date ASC NULLS FIRST`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}
