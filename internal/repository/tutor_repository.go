package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const tutorDirectoryColumns = `id, created_at, timestamp_submitted, COALESCE(first_name, '') AS first_name,
COALESCE(last_name, '') AS last_name, COALESCE(email, '') AS email, phone, address, location,
COALESCE(subjects, '{}') AS subjects, years_gcse_experience, hourly_rate_group_gcse, weekly_availability,
dbs_certificate, dbs_notes`

const tutorApplicationColumns = `id, full_name, email, phone, COALESCE(subjects, '{}') AS subjects,
COALESCE(key_stages, '{}') AS key_stages, dbs_status, experience_notes, status, source, created_at`

// TutorRepository manages the tutors directory and tutor applications.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository constructs a tutor repository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// ListDirectory returns directory entries ordered by surname.
func (r *TutorRepository) ListDirectory(ctx context.Context) ([]models.TutorDirectoryEntry, error) {
	query := `SELECT ` + tutorDirectoryColumns + ` FROM tutors_directory ORDER BY last_name ASC, first_name ASC`
	var entries []models.TutorDirectoryEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list tutors directory: %w", err)
	}
	return entries, nil
}

// FindDirectoryEntry loads one directory entry.
func (r *TutorRepository) FindDirectoryEntry(ctx context.Context, id string) (*models.TutorDirectoryEntry, error) {
	var entry models.TutorDirectoryEntry
	if err := r.db.GetContext(ctx, &entry, `SELECT `+tutorDirectoryColumns+` FROM tutors_directory WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateDirectoryEntry inserts a directory entry.
func (r *TutorRepository) CreateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	const query = `INSERT INTO tutors_directory (id, timestamp_submitted, first_name, last_name, email, phone, address,
location, subjects, years_gcse_experience, hourly_rate_group_gcse, weekly_availability, dbs_certificate, dbs_notes)
VALUES (:id, :timestamp_submitted, :first_name, :last_name, :email, :phone, :address,
:location, :subjects, :years_gcse_experience, :hourly_rate_group_gcse, :weekly_availability, :dbs_certificate, :dbs_notes)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create tutor directory entry: %w", err)
	}
	return nil
}

// UpdateDirectoryEntry overwrites a directory entry.
func (r *TutorRepository) UpdateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error {
	const query = `UPDATE tutors_directory SET first_name = :first_name, last_name = :last_name, email = :email,
phone = :phone, address = :address, location = :location, subjects = :subjects,
years_gcse_experience = :years_gcse_experience, hourly_rate_group_gcse = :hourly_rate_group_gcse,
weekly_availability = :weekly_availability, dbs_certificate = :dbs_certificate, dbs_notes = :dbs_notes
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update tutor directory entry: %w", err)
	}
	return expectAffected(res)
}

// DeleteDirectoryEntry removes a directory entry.
func (r *TutorRepository) DeleteDirectoryEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tutors_directory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tutor directory entry: %w", err)
	}
	return expectAffected(res)
}

// ListApplications returns applications newest first.
func (r *TutorRepository) ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.TutorApplication, error) {
	query := `SELECT ` + tutorApplicationColumns + ` FROM tutor_applications`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	var apps []models.TutorApplication
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("list tutor applications: %w", err)
	}
	return apps, nil
}

// CreateApplication stores a submitted application.
func (r *TutorRepository) CreateApplication(ctx context.Context, app *models.TutorApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	const query = `INSERT INTO tutor_applications (id, full_name, email, phone, subjects, key_stages, dbs_status,
experience_notes, status, source)
VALUES (:id, :full_name, :email, :phone, :subjects, :key_stages, :dbs_status, :experience_notes, :status, :source)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create tutor application: %w", err)
	}
	return nil
}

// UpdateApplicationStatus changes the review status of an application.
func (r *TutorRepository) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tutor_applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update tutor application status: %w", err)
	}
	return expectAffected(res)
}
