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

type attendanceRepository interface {
	ListByInstance(ctx context.Context, instanceID string) ([]models.AttendanceRecord, error)
	Upsert(ctx context.Context, records []models.AttendanceRecord) error
}

// AttendanceService reads and saves the register of an instance.
type AttendanceService struct {
	repo      attendanceRepository
	scope     instanceScope
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, instances instanceRepository, enrollments enrollmentReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{
		repo:      repo,
		scope:     instanceScope{instances: instances, enrollments: enrollments},
		validator: validate,
		logger:    logger,
	}
	_ = svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	return svc
}

// Roster returns one line per enrolled student with the recorded mark. Students without a
// mark are shown as Present and flagged as not yet recorded.
func (s *AttendanceService) Roster(ctx context.Context, claims *models.JWTClaims, instanceID string) ([]models.RosterLine, error) {
	inst, err := s.scope.find(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := ensureCanTeach(claims, inst); err != nil {
		return nil, err
	}
	return s.roster(ctx, inst.ID)
}

func (s *AttendanceService) roster(ctx context.Context, instanceID string) ([]models.RosterLine, error) {
	enrollments, err := s.scope.enrollments.ListByInstance(ctx, instanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	records, err := s.repo.ListByInstance(ctx, instanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	marks := make(map[string]models.AttendanceRecord, len(records))
	for _, r := range records {
		marks[r.StudentID] = r
	}

	lines := make([]models.RosterLine, 0, len(enrollments))
	seen := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		if e.StudentID == nil || seen[*e.StudentID] {
			continue
		}
		seen[*e.StudentID] = true
		line := models.RosterLine{
			StudentID:     *e.StudentID,
			StudentName:   derefString(e.StudentName),
			PaymentStatus: e.PaymentStatus,
			Status:        models.AttendancePresent,
		}
		if mark, ok := marks[line.StudentID]; ok {
			line.Status = mark.Status
			line.Note = derefString(mark.Note)
			line.Recorded = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Save upserts one mark per enrolled student. Students missing from the request are marked
// Present. An instance without enrolled students is a no-op.
func (s *AttendanceService) Save(ctx context.Context, claims *models.JWTClaims, instanceID string, req dto.SaveAttendanceRequest) ([]models.RosterLine, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	inst, err := s.scope.find(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if err := ensureCanTeach(claims, inst); err != nil {
		return nil, err
	}

	lines, err := s.roster(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return lines, nil
	}

	enrolled := make(map[string]bool, len(lines))
	for _, line := range lines {
		enrolled[line.StudentID] = true
	}
	submitted := make(map[string]dto.AttendanceMark, len(req.Records))
	for _, mark := range req.Records {
		if !enrolled[mark.StudentID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student "+mark.StudentID+" is not enrolled in this session")
		}
		submitted[mark.StudentID] = mark
	}

	records := make([]models.AttendanceRecord, 0, len(lines))
	for i, line := range lines {
		status := models.AttendancePresent
		var note *string
		if mark, ok := submitted[line.StudentID]; ok {
			if mark.Status != "" {
				status = models.AttendanceStatus(mark.Status)
			}
			note = trimmedPtr(strPtr(mark.Note))
		}
		records = append(records, models.AttendanceRecord{
			InstanceID: inst.ID,
			StudentID:  line.StudentID,
			TutorID:    claims.UserID,
			Status:     status,
			Note:       note,
		})
		lines[i].Status = status
		lines[i].Note = strings.TrimSpace(derefString(note))
		lines[i].Recorded = true
	}

	if err := s.repo.Upsert(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	s.logger.Info("attendance saved", zap.String("instance_id", inst.ID), zap.Int("students", len(records)))
	return lines, nil
}
