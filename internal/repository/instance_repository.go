package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

// Dates and times are cast to text so lib/pq hands back YYYY-MM-DD and HH:MM:SS rather than timestamps.
const instanceSelect = `SELECT gi.id, gi.slot_id, gi.package_id, COALESCE(gi.label, '') AS label,
COALESCE(gi.day_of_week, '') AS day_of_week, COALESCE(gi.start_time::text, '') AS start_time,
COALESCE(gi.duration_minutes, 0) AS duration_minutes, COALESCE(gi.key_stage, '') AS key_stage,
COALESCE(gi.group_type, '') AS group_type, COALESCE(gi.max_capacity, 0) AS max_capacity,
gi.assigned_tutor_id, p.name AS tutor_name, COALESCE(gi.is_booking_enabled, false) AS is_booking_enabled,
gi.session_date::text AS session_date, gi.classroom_url, gi.classroom_provider, gi.classroom_notes,
gi.recording_url, gi.created_at
FROM group_instances gi
LEFT JOIN profiles p ON p.id = gi.assigned_tutor_id`

// InstanceRepository manages group_instances.
type InstanceRepository struct {
	db *sqlx.DB
}

// NewInstanceRepository constructs an instance repository.
func NewInstanceRepository(db *sqlx.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// List returns instances ordered by session date then start time. Undated instances sort last.
func (r *InstanceRepository) List(ctx context.Context, filter models.InstanceFilter) ([]models.GroupInstance, error) {
	query := instanceSelect + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []models.GroupInstance{}, nil
		}
		conditions = append(conditions, fmt.Sprintf("gi.id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.IDs))
	}
	if filter.SlotID != "" {
		conditions = append(conditions, fmt.Sprintf("gi.slot_id = $%d", len(args)+1))
		args = append(args, filter.SlotID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("gi.assigned_tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("gi.session_date >= $%d::date", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("gi.session_date < $%d::date", len(args)+1))
		args = append(args, filter.DateTo)
	}
	if len(filter.SessionDays) > 0 {
		conditions = append(conditions, fmt.Sprintf("gi.session_date::text = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.SessionDays))
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY gi.session_date ASC NULLS LAST, gi.start_time ASC`

	var instances []models.GroupInstance
	if err := r.db.SelectContext(ctx, &instances, query, args...); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return instances, nil
}

// FindByID loads one instance with its tutor name.
func (r *InstanceRepository) FindByID(ctx context.Context, id string) (*models.GroupInstance, error) {
	var inst models.GroupInstance
	if err := r.db.GetContext(ctx, &inst, instanceSelect+` WHERE gi.id = $1`, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Create inserts an instance created directly by an administrator.
func (r *InstanceRepository) Create(ctx context.Context, inst *models.GroupInstance) error {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	const query = `INSERT INTO group_instances (id, slot_id, package_id, label, day_of_week, start_time, duration_minutes,
key_stage, group_type, max_capacity, assigned_tutor_id, is_booking_enabled, session_date, classroom_url,
classroom_provider, classroom_notes, recording_url)
VALUES (:id, :slot_id, :package_id, :label, :day_of_week, :start_time, :duration_minutes,
:key_stage, :group_type, :max_capacity, :assigned_tutor_id, :is_booking_enabled, :session_date, :classroom_url,
:classroom_provider, :classroom_notes, :recording_url)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of an instance.
func (r *InstanceRepository) Update(ctx context.Context, inst *models.GroupInstance) error {
	const query = `UPDATE group_instances SET label = :label, day_of_week = :day_of_week, start_time = :start_time,
duration_minutes = :duration_minutes, key_stage = :key_stage, group_type = :group_type, max_capacity = :max_capacity,
assigned_tutor_id = :assigned_tutor_id, is_booking_enabled = :is_booking_enabled, session_date = :session_date,
classroom_url = :classroom_url, classroom_provider = :classroom_provider, classroom_notes = :classroom_notes,
recording_url = :recording_url
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, inst)
	if err != nil {
		return fmt.Errorf("update instance: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an instance.
func (r *InstanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM group_instances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete instance: %w", err)
	}
	return expectAffected(res)
}

// SetBookingEnabled flips the booking flag of one instance.
func (r *InstanceRepository) SetBookingEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE group_instances SET is_booking_enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return fmt.Errorf("toggle instance booking: %w", err)
	}
	return expectAffected(res)
}

// UpdateClassroom sets the link fields of one instance. Nil fields are left unchanged.
func (r *InstanceRepository) UpdateClassroom(ctx context.Context, id string, update models.ClassroomUpdate) error {
	const query = `UPDATE group_instances SET
classroom_url = COALESCE($2, classroom_url),
classroom_provider = COALESCE($3, classroom_provider),
classroom_notes = COALESCE($4, classroom_notes),
recording_url = COALESCE($5, recording_url)
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, update.ClassroomURL, update.ClassroomProvider, update.ClassroomNotes, update.RecordingURL)
	if err != nil {
		return fmt.Errorf("update instance classroom: %w", err)
	}
	return expectAffected(res)
}

// ApplyBlockLink writes the link onto every instance of the slot dated within [from, until)
// and returns the number of rows touched.
func (r *InstanceRepository) ApplyBlockLink(ctx context.Context, slotID, from, until string, update models.ClassroomUpdate) (int64, error) {
	const query = `UPDATE group_instances SET classroom_url = $4, classroom_provider = $5, classroom_notes = $6
WHERE slot_id = $1 AND session_date >= $2::date AND session_date < $3::date`
	res, err := r.db.ExecContext(ctx, query, slotID, from, until, update.ClassroomURL, update.ClassroomProvider, update.ClassroomNotes)
	if err != nil {
		return 0, fmt.Errorf("apply block link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("apply block link rows: %w", err)
	}
	return n, nil
}

// SetClassroomLinks writes the same link onto the given instances inside one transaction.
func (r *InstanceRepository) SetClassroomLinks(ctx context.Context, ids []string, update models.ClassroomUpdate) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin classroom links tx: %w", err)
	}
	const query = `UPDATE group_instances SET classroom_url = $2, classroom_provider = $3, classroom_notes = $4
WHERE id = ANY($1) RETURNING id`
	var updated []string
	if err := tx.SelectContext(ctx, &updated, query, pq.Array(ids), update.ClassroomURL, update.ClassroomProvider, update.ClassroomNotes); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("set classroom links: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit classroom links tx: %w", err)
	}
	return updated, nil
}
