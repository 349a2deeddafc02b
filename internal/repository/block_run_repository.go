package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const blockRunColumns = `id, kind, slot_id, student_id, block_start_date::text AS block_start_date, classroom_url, status,
sessions_updated, error_message, requested_by, created_at, updated_at`

// BlockRunRepository persists generate and verify workflow runs.
type BlockRunRepository struct {
	db *sqlx.DB
}

// NewBlockRunRepository constructs a block run repository.
func NewBlockRunRepository(db *sqlx.DB) *BlockRunRepository {
	return &BlockRunRepository{db: db}
}

// Create records a new run in its initial status.
func (r *BlockRunRepository) Create(ctx context.Context, run *models.BlockRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = run.CreatedAt
	const query = `INSERT INTO block_generation_runs (id, kind, slot_id, student_id, block_start_date, classroom_url, status,
sessions_updated, error_message, requested_by, created_at, updated_at)
VALUES (:id, :kind, :slot_id, :student_id, :block_start_date, :classroom_url, :status,
:sessions_updated, :error_message, :requested_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create block run: %w", err)
	}
	return nil
}

// UpdateStatus moves a run to the given status.
func (r *BlockRunRepository) UpdateStatus(ctx context.Context, run *models.BlockRun) error {
	run.UpdatedAt = time.Now().UTC()
	const query = `UPDATE block_generation_runs SET status = :status, sessions_updated = :sessions_updated,
error_message = :error_message, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("update block run: %w", err)
	}
	return expectAffected(res)
}

// FindByID loads one run.
func (r *BlockRunRepository) FindByID(ctx context.Context, id string) (*models.BlockRun, error) {
	var run models.BlockRun
	if err := r.db.GetContext(ctx, &run, `SELECT `+blockRunColumns+` FROM block_generation_runs WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs newest first with the total count.
func (r *BlockRunRepository) List(ctx context.Context, filter models.BlockRunFilter) ([]models.BlockRun, int, error) {
	baseQuery := `FROM block_generation_runs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SlotID != "" {
		conditions = append(conditions, fmt.Sprintf("slot_id = $%d", len(args)+1))
		args = append(args, filter.SlotID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", blockRunColumns, baseQuery, pageSize, (page-1)*pageSize)

	var runs []models.BlockRun
	if err := r.db.SelectContext(ctx, &runs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list block runs: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count block runs: %w", err)
	}
	return runs, total, nil
}
