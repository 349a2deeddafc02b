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
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type instanceRepository interface {
	List(ctx context.Context, filter models.InstanceFilter) ([]models.GroupInstance, error)
	FindByID(ctx context.Context, id string) (*models.GroupInstance, error)
	Create(ctx context.Context, inst *models.GroupInstance) error
	Update(ctx context.Context, inst *models.GroupInstance) error
	Delete(ctx context.Context, id string) error
	SetBookingEnabled(ctx context.Context, id string, enabled bool) error
	UpdateClassroom(ctx context.Context, id string, update models.ClassroomUpdate) error
}

type enrollmentReader interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	FindForStudent(ctx context.Context, instanceID, studentID string) (*models.Enrollment, error)
	ListByInstance(ctx context.Context, instanceID string) ([]models.Enrollment, error)
}

// instanceScope resolves which instances a caller may see.
type instanceScope struct {
	instances   instanceRepository
	enrollments enrollmentReader
}

// visible lists the caller's instances: everything for admins, assigned sessions for tutors and
// enrolled sessions for students and parents. For attendees the caller's enrollments are returned too.
func (s instanceScope) visible(ctx context.Context, claims *models.JWTClaims, filter models.InstanceFilter) ([]models.GroupInstance, []models.Enrollment, error) {
	if claims == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleAdmin:
		items, err := s.instances.List(ctx, filter)
		return items, nil, err
	case models.RoleTutor:
		filter.TutorID = claims.UserID
		items, err := s.instances.List(ctx, filter)
		return items, nil, err
	}

	studentID := claims.StudentID()
	if studentID == "" {
		return []models.GroupInstance{}, []models.Enrollment{}, nil
	}
	enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, nil, err
	}
	filter.IDs = make([]string, 0, len(enrollments))
	seen := make(map[string]struct{}, len(enrollments))
	for _, e := range enrollments {
		if _, ok := seen[e.InstanceID]; ok {
			continue
		}
		seen[e.InstanceID] = struct{}{}
		filter.IDs = append(filter.IDs, e.InstanceID)
	}
	items, err := s.instances.List(ctx, filter)
	return items, enrollments, err
}

func (s instanceScope) find(ctx context.Context, id string) (*models.GroupInstance, error) {
	inst, err := s.instances.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return inst, nil
}

// InstanceService manages dated group instances.
type InstanceService struct {
	scope     instanceScope
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstanceService creates an instance of InstanceService.
func NewInstanceService(instances instanceRepository, enrollments enrollmentReader, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *InstanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InstanceService{
		scope:     instanceScope{instances: instances, enrollments: enrollments},
		audit:     audit,
		validator: validate,
		logger:    logger,
	}
}

// List returns the instances visible to the caller.
func (s *InstanceService) List(ctx context.Context, claims *models.JWTClaims, query dto.ListInstancesQuery) ([]models.GroupInstance, error) {
	filter := models.InstanceFilter{
		SlotID:   strings.TrimSpace(query.SlotID),
		DateFrom: strings.TrimSpace(query.DateFrom),
		DateTo:   strings.TrimSpace(query.DateTo),
	}
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, ok := schedule.ParseSessionDate(d, nil); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dates must use YYYY-MM-DD")
		}
	}
	items, _, err := s.scope.visible(ctx, claims, filter)
	if err != nil {
		return nil, wrapInternal(err, "failed to list sessions")
	}
	if items == nil {
		items = []models.GroupInstance{}
	}
	return items, nil
}

// Get returns one instance.
func (s *InstanceService) Get(ctx context.Context, id string) (*models.GroupInstance, error) {
	return s.scope.find(ctx, id)
}

// Create stores an instance created by an administrator.
func (s *InstanceService) Create(ctx context.Context, req dto.InstanceRequest) (*models.GroupInstance, error) {
	inst := &models.GroupInstance{}
	if err := s.apply(inst, req); err != nil {
		return nil, err
	}
	if err := s.scope.instances.Create(ctx, inst); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return inst, nil
}

// Update replaces the editable fields of an instance.
func (s *InstanceService) Update(ctx context.Context, id string, req dto.InstanceRequest) (*models.GroupInstance, error) {
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(inst, req); err != nil {
		return nil, err
	}
	if err := s.scope.instances.Update(ctx, inst); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return inst, nil
}

// Delete removes an instance.
func (s *InstanceService) Delete(ctx context.Context, id, actorID string, meta models.RequestMeta) error {
	if err := s.scope.instances.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    actorID,
		action:     models.AuditActionInstanceDelete,
		resource:   "group_instances",
		resourceID: id,
		meta:       meta,
	})
	return nil
}

// SetBookingEnabled opens or closes booking for an instance.
func (s *InstanceService) SetBookingEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.scope.instances.SetBookingEnabled(ctx, id, enabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle booking")
	}
	return nil
}

// UpdateClassroom edits the live link of one instance. Tutors may only edit sessions assigned to them.
func (s *InstanceService) UpdateClassroom(ctx context.Context, claims *models.JWTClaims, id string, req dto.ClassroomRequest) (*models.GroupInstance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureCanTeach(claims, inst); err != nil {
		return nil, err
	}

	update := models.ClassroomUpdate{
		ClassroomURL:      trimmedPtr(req.ClassroomURL),
		ClassroomProvider: trimmedPtr(req.ClassroomProvider),
		ClassroomNotes:    req.ClassroomNotes,
		RecordingURL:      trimmedPtr(req.RecordingURL),
	}
	if err := s.scope.instances.UpdateClassroom(ctx, id, update); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}
	return s.Get(ctx, id)
}

func (s *InstanceService) apply(inst *models.GroupInstance, req dto.InstanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, _, ok := schedule.ParseClock(req.StartTime); !ok {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must look like 17:00 or 5:00pm")
	}
	day := strings.TrimSpace(req.DayOfWeek)
	if day != "" {
		canonical, err := schedule.CanonicalWeekday(day)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day_of_week must be Monday to Sunday")
		}
		day = canonical
	}
	date := trimmedPtr(req.SessionDate)
	if date != nil {
		parsed, ok := schedule.ParseSessionDate(*date, nil)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, "session_date must use YYYY-MM-DD")
		}
		if day == "" {
			day = parsed.Weekday().String()
		}
	}

	format := models.GroupFormat(req.GroupType)
	inst.SlotID = trimmedPtr(req.SlotID)
	inst.PackageID = strings.TrimSpace(req.PackageID)
	inst.Label = strings.TrimSpace(req.Label)
	inst.DayOfWeek = day
	inst.StartTime = schedule.NormalizeTime(req.StartTime)
	inst.DurationMinutes = req.DurationMinutes
	inst.KeyStage = strings.TrimSpace(req.KeyStage)
	inst.GroupType = format
	inst.MaxCapacity = format.Capacity()
	inst.AssignedTutorID = trimmedPtr(req.AssignedTutorID)
	inst.IsBookingEnabled = req.IsBookingEnabled
	inst.SessionDate = date
	inst.ClassroomURL = trimmedPtr(req.ClassroomURL)
	inst.ClassroomProvider = trimmedPtr(req.ClassroomProvider)
	inst.ClassroomNotes = req.ClassroomNotes
	inst.RecordingURL = trimmedPtr(req.RecordingURL)
	return nil
}

// ensureCanTeach allows admins and the tutor assigned to the instance.
func ensureCanTeach(claims *models.JWTClaims, inst *models.GroupInstance) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTutor:
		if inst.AssignedTutorID != nil && *inst.AssignedTutorID == claims.UserID {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, "session is not assigned to you")
	}
	return appErrors.Clone(appErrors.ErrForbidden, "staff access required")
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func wrapInternal(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
