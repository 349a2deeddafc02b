package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const slotColumns = `id, package_id, COALESCE(label, '') AS label, day_of_week, start_time::text AS start_time,
duration_minutes, COALESCE(key_stage, '') AS key_stage, group_type, max_capacity, assigned_tutor_id,
is_booking_enabled, classroom_provider, classroom_url, classroom_notes, created_at`

// SlotRepository manages recurring_slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs a slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// List returns slots ordered by weekday and start time.
func (r *SlotRepository) List(ctx context.Context, filter models.SlotFilter) ([]models.RecurringSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM recurring_slots WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.PackageID != "" {
		conditions = append(conditions, fmt.Sprintf("package_id = $%d", len(args)+1))
		args = append(args, filter.PackageID)
	}
	if filter.AssignedTutor != "" {
		conditions = append(conditions, fmt.Sprintf("assigned_tutor_id = $%d", len(args)+1))
		args = append(args, filter.AssignedTutor)
	}
	if filter.BookingOnly {
		conditions = append(conditions, "is_booking_enabled = true")
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day_of_week), start_time`

	var slots []models.RecurringSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// FindByID loads one slot. Missing rows surface sql.ErrNoRows.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.RecurringSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM recurring_slots WHERE id = $1`
	var slot models.RecurringSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a slot and fills its identifier.
func (r *SlotRepository) Create(ctx context.Context, slot *models.RecurringSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	const query = `INSERT INTO recurring_slots (id, package_id, label, day_of_week, start_time, duration_minutes, key_stage,
group_type, max_capacity, assigned_tutor_id, is_booking_enabled, classroom_provider, classroom_url, classroom_notes)
VALUES (:id, :package_id, :label, :day_of_week, :start_time, :duration_minutes, :key_stage,
:group_type, :max_capacity, :assigned_tutor_id, :is_booking_enabled, :classroom_provider, :classroom_url, :classroom_notes)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of a slot.
func (r *SlotRepository) Update(ctx context.Context, slot *models.RecurringSlot) error {
	const query = `UPDATE recurring_slots SET package_id = :package_id, label = :label, day_of_week = :day_of_week,
start_time = :start_time, duration_minutes = :duration_minutes, key_stage = :key_stage, group_type = :group_type,
max_capacity = :max_capacity, assigned_tutor_id = :assigned_tutor_id, is_booking_enabled = :is_booking_enabled,
classroom_provider = :classroom_provider, classroom_url = :classroom_url, classroom_notes = :classroom_notes
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a slot.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return expectAffected(res)
}
