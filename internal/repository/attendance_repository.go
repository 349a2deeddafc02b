package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

// AttendanceRepository manages the attendance register.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByInstance returns the marks recorded for an instance.
func (r *AttendanceRepository) ListByInstance(ctx context.Context, instanceID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, instance_id, student_id, COALESCE(tutor_id::text, '') AS tutor_id, status, note, updated_at
FROM attendance WHERE instance_id = $1`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, instanceID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Upsert writes every record in one transaction keyed on (instance_id, student_id).
func (r *AttendanceRepository) Upsert(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance tx: %w", err)
	}
	const query = `INSERT INTO attendance (id, instance_id, student_id, tutor_id, status, note, updated_at)
VALUES (:id, :instance_id, :student_id, :tutor_id, :status, :note, :updated_at)
ON CONFLICT (instance_id, student_id)
DO UPDATE SET tutor_id = EXCLUDED.tutor_id, status = EXCLUDED.status, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		records[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance tx: %w", err)
	}
	return nil
}
