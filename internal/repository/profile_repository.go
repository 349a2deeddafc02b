package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const profileColumns = `id, COALESCE(name, '') AS name, email, role, linked_user_id, COALESCE(needs_reset, false) AS needs_reset, tenant_id, created_at`

// ProfileRepository reads and writes rows of the profiles table.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID loads a profile. Missing rows surface sql.ErrNoRows.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns profiles ordered newest first together with the total count.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	baseQuery := `FROM profiles WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", profileColumns, baseQuery, pageSize, (page-1)*pageSize)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	return profiles, total, nil
}

// ListByRole returns every profile holding the role ordered by name.
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY name ASC`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, role); err != nil {
		return nil, fmt.Errorf("list profiles by role: %w", err)
	}
	return profiles, nil
}

// Create inserts a profile row for an identity that already exists.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	const query = `INSERT INTO profiles (id, name, email, role, linked_user_id, needs_reset, tenant_id)
VALUES (:id, :name, :email, :role, :linked_user_id, :needs_reset, :tenant_id)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// UpdateRole changes the role and linked student of a profile.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role models.UserRole, linkedUserID *string) error {
	const query = `UPDATE profiles SET role = $2, linked_user_id = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, role, linkedUserID)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	return expectAffected(res)
}

// ClearNeedsReset marks the first-login password reset as done.
func (r *ProfileRepository) ClearNeedsReset(ctx context.Context, id string) error {
	const query = `UPDATE profiles SET needs_reset = false WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear needs reset: %w", err)
	}
	return expectAffected(res)
}
