package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const sessionNoteColumns = `id, instance_id, tutor_id, session_title, session_summary, homework, created_at`

// SessionNoteRepository manages session_notes.
type SessionNoteRepository struct {
	db *sqlx.DB
}

// NewSessionNoteRepository constructs a session note repository.
func NewSessionNoteRepository(db *sqlx.DB) *SessionNoteRepository {
	return &SessionNoteRepository{db: db}
}

// List returns notes newest first. A nil slice of instance ids lists every note.
func (r *SessionNoteRepository) List(ctx context.Context, instanceIDs []string) ([]models.SessionNote, error) {
	query := `SELECT ` + sessionNoteColumns + ` FROM session_notes`
	var args []interface{}
	if instanceIDs != nil {
		if len(instanceIDs) == 0 {
			return []models.SessionNote{}, nil
		}
		query += ` WHERE instance_id = ANY($1)`
		args = append(args, pq.Array(instanceIDs))
	}
	query += ` ORDER BY created_at DESC`
	var notes []models.SessionNote
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list session notes: %w", err)
	}
	return notes, nil
}

// Create stores a note.
func (r *SessionNoteRepository) Create(ctx context.Context, note *models.SessionNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	const query = `INSERT INTO session_notes (id, instance_id, tutor_id, session_title, session_summary, homework)
VALUES (:id, :instance_id, :tutor_id, :session_title, :session_summary, :homework)
RETURNING created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("create session note: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&note.CreatedAt); err != nil {
			return fmt.Errorf("scan session note: %w", err)
		}
	}
	return rows.Err()
}
