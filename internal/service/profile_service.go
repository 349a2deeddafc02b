package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole, linkedUserID *string) error
}

// ProfileService handles admin user management.
type ProfileService struct {
	repo      profileRepository
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService creates an instance of ProfileService.
func NewProfileService(repo profileRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns paginated profiles and pagination metadata.
func (s *ProfileService) List(ctx context.Context, query dto.ListProfilesQuery) ([]models.Profile, *models.Pagination, error) {
	filter := models.ProfileFilter{Search: strings.TrimSpace(query.Search), Page: query.Page, PageSize: query.PageSize}
	if query.Role != "" {
		role := models.UserRole(strings.ToUpper(query.Role))
		if !role.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role filter")
		}
		filter.Role = &role
	}

	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return profiles, pagination(query.Page, query.PageSize, total), nil
}

// ListByRole returns every profile with the role, e.g. tutors for slot assignment.
func (s *ProfileService) ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error) {
	profiles, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}
	return profiles, nil
}

// UpdateRole changes a user's role. Only parents keep a linked student.
func (s *ProfileService) UpdateRole(ctx context.Context, id string, req dto.UpdateRoleRequest, actorID string, meta models.RequestMeta) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	linked := req.LinkedUserID
	if req.Role != models.RoleParent {
		linked = nil
	} else if linked == nil || strings.TrimSpace(*linked) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "parents must be linked to a student")
	} else {
		student, err := s.repo.FindByID(ctx, *linked)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrValidation, "linked student not found")
		case err != nil:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load linked student")
		case student.Role != models.RoleStudent:
			return nil, appErrors.Clone(appErrors.ErrValidation, "linked user must be a student")
		}
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role, linked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    actorID,
		action:     models.AuditActionRoleUpdate,
		resource:   "profiles",
		resourceID: id,
		oldValues:  map[string]interface{}{"role": profile.Role, "linked_user_id": profile.LinkedUserID},
		newValues:  map[string]interface{}{"role": req.Role, "linked_user_id": linked},
		meta:       meta,
	})

	profile.Role = req.Role
	profile.LinkedUserID = linked
	return profile, nil
}
