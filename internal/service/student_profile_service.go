package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type studentProfileRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Exists(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
}

// StudentProfileService stores the academic onboarding answers that unlock booking.
type StudentProfileService struct {
	repo      studentProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentProfileService constructs the service.
func NewStudentProfileService(repo studentProfileRepository, validate *validator.Validate, logger *zap.Logger) *StudentProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentProfileService{repo: repo, validator: validate, logger: logger}
}

// Get returns the onboarding profile of the acting student.
func (s *StudentProfileService) Get(ctx context.Context, claims *models.JWTClaims) (*models.StudentProfile, error) {
	studentID, err := onboardingStudent(claims)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic profile")
	}
	return profile, nil
}

// Create stores the onboarding answers once per student.
func (s *StudentProfileService) Create(ctx context.Context, claims *models.JWTClaims, req dto.StudentProfileRequest) (*models.StudentProfile, error) {
	studentID, err := onboardingStudent(claims)
	if err != nil {
		return nil, err
	}
	req.School = strings.TrimSpace(req.School)
	req.YearGroup = strings.TrimSpace(req.YearGroup)
	req.ExamBoard = strings.TrimSpace(req.ExamBoard)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic profile payload")
	}

	exists, err := s.repo.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic profile")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "academic profile already completed")
	}

	grades := req.TargetGrades
	if grades == nil {
		grades = map[string]string{}
	}
	raw, err := json.Marshal(grades)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid target grades")
	}

	profile := &models.StudentProfile{
		StudentID:    studentID,
		School:       req.School,
		YearGroup:    req.YearGroup,
		ExamBoard:    req.ExamBoard,
		Strengths:    strings.TrimSpace(req.Strengths),
		Weaknesses:   strings.TrimSpace(req.Weaknesses),
		TargetGrades: types.JSONText(raw),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save academic profile")
	}
	s.logger.Info("academic profile completed", zap.String("student_id", studentID))
	return profile, nil
}

func onboardingStudent(claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent && claims.Role != models.RoleParent {
		return "", appErrors.Clone(appErrors.ErrForbidden, "only students and parents complete onboarding")
	}
	studentID := claims.StudentID()
	if studentID == "" {
		return "", appErrors.Clone(appErrors.ErrForbidden, "no linked student account")
	}
	return studentID, nil
}
