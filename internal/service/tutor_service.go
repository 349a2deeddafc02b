package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
	"github.com/noah-isme/tuition-portal-api/pkg/identity"
)

type identityProvider interface {
	InviteUser(ctx context.Context, email string, metadata map[string]interface{}) (*identity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type tutorProfileWriter interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type tutorRepository interface {
	ListDirectory(ctx context.Context) ([]models.TutorDirectoryEntry, error)
	FindDirectoryEntry(ctx context.Context, id string) (*models.TutorDirectoryEntry, error)
	CreateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error
	UpdateDirectoryEntry(ctx context.Context, entry *models.TutorDirectoryEntry) error
	DeleteDirectoryEntry(ctx context.Context, id string) error
	ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.TutorApplication, error)
	CreateApplication(ctx context.Context, app *models.TutorApplication) error
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// TutorService provisions tutor accounts and manages the directory and applications.
type TutorService struct {
	repo      tutorRepository
	profiles  tutorProfileWriter
	identity  identityProvider
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTutorService creates an instance of TutorService.
func NewTutorService(repo tutorRepository, profiles tutorProfileWriter, idp identityProvider, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TutorService{repo: repo, profiles: profiles, identity: idp, audit: audit, validator: validate, logger: logger}
}

// CreateTutor invites the tutor, creates the TUTOR profile under the admin's tenant and adds a
// directory entry. An invite whose profile cannot be stored is deleted again. A failed
// directory insert is logged only.
func (s *TutorService) CreateTutor(ctx context.Context, claims *models.JWTClaims, req dto.CreateTutorRequest, meta models.RequestMeta) (*models.CreatedTutor, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Full name and email are required")
	}

	admin, err := s.profiles.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "Forbidden: Admin access required")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin profile")
	}

	user, err := s.identity.InviteUser(ctx, req.Email, map[string]interface{}{"full_name": req.FullName, "role": string(models.RoleTutor)})
	if err != nil {
		return nil, identityError(err)
	}

	profile := &models.Profile{
		ID:       user.ID,
		Name:     req.FullName,
		Email:    strPtr(req.Email),
		Role:     models.RoleTutor,
		TenantID: admin.TenantID,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if delErr := s.identity.DeleteUser(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.logger.Error("failed to roll back tutor invite", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to create tutor profile")
	}

	first, last := splitFullName(req.FullName)
	submitted := time.Now().UTC()
	entry := &models.TutorDirectoryEntry{
		FirstName:          first,
		LastName:           last,
		Email:              req.Email,
		Phone:              trimmedPtr(strPtr(req.Phone)),
		Subjects:           append([]string{}, req.Subjects...),
		TimestampSubmitted: &submitted,
	}
	if err := s.repo.CreateDirectoryEntry(ctx, entry); err != nil {
		s.logger.Error("tutor directory insert failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    claims.UserID,
		action:     models.AuditActionTutorCreate,
		resource:   "profiles",
		resourceID: user.ID,
		newValues:  map[string]interface{}{"email": req.Email, "name": req.FullName},
		meta:       meta,
	})

	email := user.Email
	if email == "" {
		email = req.Email
	}
	return &models.CreatedTutor{ID: user.ID, Email: email, Name: req.FullName}, nil
}

// splitFullName takes the first word as the first name. A single word gets the surname "Tutor".
func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", "Tutor"
	}
	if len(parts) == 1 {
		return parts[0], "Tutor"
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func identityError(err error) error {
	if errors.Is(err, identity.ErrNotConfigured) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "tutor invites are not configured")
	}
	var apiErr *identity.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, apiErr.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrBackend.Code, http.StatusBadGateway, "identity provider unavailable")
}

// ListDirectory returns the tutors directory.
func (s *TutorService) ListDirectory(ctx context.Context) ([]models.TutorDirectoryEntry, error) {
	entries, err := s.repo.ListDirectory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	return entries, nil
}

// CreateDirectoryEntry adds a tutor to the directory.
func (s *TutorService) CreateDirectoryEntry(ctx context.Context, req dto.TutorDirectoryRequest) (*models.TutorDirectoryEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutor payload")
	}
	entry := &models.TutorDirectoryEntry{}
	applyDirectoryRequest(entry, req)
	now := time.Now().UTC()
	entry.TimestampSubmitted = &now
	if err := s.repo.CreateDirectoryEntry(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tutor")
	}
	return entry, nil
}

// UpdateDirectoryEntry replaces a directory entry.
func (s *TutorService) UpdateDirectoryEntry(ctx context.Context, id string, req dto.TutorDirectoryRequest) (*models.TutorDirectoryEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tutor payload")
	}
	entry, err := s.repo.FindDirectoryEntry(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	applyDirectoryRequest(entry, req)
	if err := s.repo.UpdateDirectoryEntry(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tutor")
	}
	return entry, nil
}

// DeleteDirectoryEntry removes a directory entry.
func (s *TutorService) DeleteDirectoryEntry(ctx context.Context, id string) error {
	if err := s.repo.DeleteDirectoryEntry(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tutor")
	}
	return nil
}

func applyDirectoryRequest(entry *models.TutorDirectoryEntry, req dto.TutorDirectoryRequest) {
	entry.FirstName = strings.TrimSpace(req.FirstName)
	entry.LastName = strings.TrimSpace(req.LastName)
	entry.Email = strings.ToLower(strings.TrimSpace(req.Email))
	entry.Phone = trimmedPtr(req.Phone)
	entry.Address = trimmedPtr(req.Address)
	entry.Location = trimmedPtr(req.Location)
	entry.Subjects = append([]string{}, req.Subjects...)
	entry.YearsGCSEExperience = trimmedPtr(req.YearsGCSEExperience)
	entry.HourlyRateGroupGCSE = trimmedPtr(req.HourlyRateGroupGCSE)
	entry.WeeklyAvailability = trimmedPtr(req.WeeklyAvailability)
	entry.DBSCertificate = trimmedPtr(req.DBSCertificate)
	entry.DBSNotes = trimmedPtr(req.DBSNotes)
}

// SubmitApplication stores a public application with status New.
func (s *TutorService) SubmitApplication(ctx context.Context, req dto.TutorApplicationRequest) (*models.TutorApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	app := &models.TutorApplication{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           trimmedPtr(req.Phone),
		Subjects:        append([]string{}, req.Subjects...),
		KeyStages:       append([]string{}, req.KeyStages...),
		DBSStatus:       trimmedPtr(req.DBSStatus),
		ExperienceNotes: trimmedPtr(req.ExperienceNotes),
		Status:          models.ApplicationNew,
		Source:          models.ApplicationSourcePlatform,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}
	return app, nil
}

// ListApplications returns applications, optionally by status.
func (s *TutorService) ListApplications(ctx context.Context, status string) ([]models.TutorApplication, error) {
	apps, err := s.repo.ListApplications(ctx, models.ApplicationStatus(strings.TrimSpace(status)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application through review.
func (s *TutorService) UpdateApplicationStatus(ctx context.Context, id string, req dto.ApplicationStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err := s.repo.UpdateApplicationStatus(ctx, id, models.ApplicationStatus(req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	return nil
}
