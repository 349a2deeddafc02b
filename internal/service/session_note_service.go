package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type sessionNoteRepository interface {
	List(ctx context.Context, instanceIDs []string) ([]models.SessionNote, error)
	Create(ctx context.Context, note *models.SessionNote) error
}

// SessionNoteService records and lists tutor session notes.
type SessionNoteService struct {
	repo      sessionNoteRepository
	scope     instanceScope
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionNoteService creates an instance of SessionNoteService.
func NewSessionNoteService(repo sessionNoteRepository, instances instanceRepository, enrollments enrollmentReader, validate *validator.Validate, logger *zap.Logger) *SessionNoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SessionNoteService{
		repo:      repo,
		scope:     instanceScope{instances: instances, enrollments: enrollments},
		validator: validate,
		logger:    logger,
	}
}

// List returns notes for the requested instances, limited to what the caller can see.
// Admins without a filter get every note.
func (s *SessionNoteService) List(ctx context.Context, claims *models.JWTClaims, instanceIDs []string) ([]models.SessionNote, error) {
	requested := cleanIDs(instanceIDs)
	if claims != nil && claims.Role == models.RoleAdmin {
		notes, err := s.repo.List(ctx, requested)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session notes")
		}
		return notes, nil
	}

	visible, _, err := s.scope.visible(ctx, claims, models.InstanceFilter{})
	if err != nil {
		return nil, wrapInternal(err, "failed to list session notes")
	}
	allowed := make([]string, 0, len(visible))
	wanted := make(map[string]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}
	for _, inst := range visible {
		if requested == nil || wanted[inst.ID] {
			allowed = append(allowed, inst.ID)
		}
	}
	notes, err := s.repo.List(ctx, allowed)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session notes")
	}
	return notes, nil
}

// Create stores a note for an instance the caller teaches.
func (s *SessionNoteService) Create(ctx context.Context, claims *models.JWTClaims, req dto.SessionNoteRequest) (*models.SessionNote, error) {
	req.SessionTitle = strings.TrimSpace(req.SessionTitle)
	req.SessionSummary = strings.TrimSpace(req.SessionSummary)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session note payload")
	}
	inst, err := s.scope.find(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	if err := ensureCanTeach(claims, inst); err != nil {
		return nil, err
	}

	note := &models.SessionNote{
		InstanceID:     inst.ID,
		TutorID:        claims.UserID,
		SessionTitle:   req.SessionTitle,
		SessionSummary: req.SessionSummary,
		Homework:       trimmedPtr(req.Homework),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session note")
	}
	return note, nil
}

// cleanIDs trims and drops blanks. A nil input stays nil so that "no filter" is preserved.
func cleanIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
