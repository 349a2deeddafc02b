package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const platformSettingsID = 1

// SettingsRepository reads and writes the platform_settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads the settings row. A missing row surfaces sql.ErrNoRows.
func (r *SettingsRepository) Get(ctx context.Context) (*models.PlatformSettings, error) {
	const query = `SELECT id, COALESCE(support_email, '') AS support_email, COALESCE(logo_url, '') AS logo_url,
COALESCE(company_name, '') AS company_name, updated_at FROM platform_settings WHERE id = $1`
	var settings models.PlatformSettings
	if err := r.db.GetContext(ctx, &settings, query, platformSettingsID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the singleton row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.PlatformSettings) error {
	now := time.Now().UTC()
	settings.ID = platformSettingsID
	settings.UpdatedAt = &now
	const query = `INSERT INTO platform_settings (id, support_email, logo_url, company_name, updated_at)
VALUES (:id, :support_email, :logo_url, :company_name, :updated_at)
ON CONFLICT (id)
DO UPDATE SET support_email = EXCLUDED.support_email, logo_url = EXCLUDED.logo_url,
              company_name = EXCLUDED.company_name, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert platform settings: %w", err)
	}
	return nil
}
