package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type bookingProcedures interface {
	Book4WeekBlock(ctx context.Context, callerID, slotID, startDate, packageID string) ([]models.Enrollment, error)
	BookMultiSubjectBlock(ctx context.Context, callerID, bundleID, startDate string, subjectSlots map[string]string, paymentMode string) error
	EnrollBlock(ctx context.Context, callerID, startInstanceID, packageID, notes string) error
	Renew4WeekBlock(ctx context.Context, callerID, studentID, slotID, packageID string) error
}

type slotFinder interface {
	FindByID(ctx context.Context, id string) (*models.RecurringSlot, error)
}

type onboardingChecker interface {
	Exists(ctx context.Context, studentID string) (bool, error)
}

const defaultPaymentMode = "Paid"

// BookingService books and renews blocks through the backend procedures.
type BookingService struct {
	procedures bookingProcedures
	slots      slotFinder
	onboarding onboardingChecker
	remote     *RemoteCaller
	clock      schedule.Clock
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewBookingService creates an instance of BookingService.
func NewBookingService(procedures bookingProcedures, slots slotFinder, onboarding onboardingChecker, remote *RemoteCaller, clock schedule.Clock, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &BookingService{
		procedures: procedures,
		slots:      slots,
		onboarding: onboarding,
		remote:     remote,
		clock:      clock,
		validator:  validate,
		logger:     logger,
	}
}

// BookBlock books the four weekly sessions of a slot. Without a start date the next
// occurrence of the slot's weekday is used.
func (s *BookingService) BookBlock(ctx context.Context, claims *models.JWTClaims, req dto.BookBlockRequest) (*dto.BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	studentID, err := s.bookingStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.FindByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if !slot.IsBookingEnabled {
		return nil, (&appErrors.BackendError{Code: appErrors.BackendBookingDisabled}).Translate()
	}

	startDate := req.StartDate
	if startDate == "" {
		next, err := schedule.NextOccurrence(slot.DayOfWeek, s.clock.Now())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "slot has an invalid day of week")
		}
		startDate = schedule.FormatDate(next)
	}

	enrollments, err := callRemote(ctx, s.remote, "book_4week_block", "failed to book block", func(ctx context.Context) ([]models.Enrollment, error) {
		return s.procedures.Book4WeekBlock(ctx, studentID, slot.ID, startDate, req.PackageID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("block booked", zap.String("student_id", studentID), zap.String("slot_id", slot.ID), zap.String("start_date", startDate))
	return &dto.BookingResult{
		Message:     "Block booked. Complete payment to unlock your sessions.",
		StartDate:   startDate,
		Enrollments: enrollments,
	}, nil
}

// BookBundle books one slot per subject of a multi subject bundle. Without a start date the
// next Monday is used.
func (s *BookingService) BookBundle(ctx context.Context, claims *models.JWTClaims, req dto.BookBundleRequest) (*dto.BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bundle payload")
	}
	pkg, ok := models.FindPackage(req.BundlePackageID)
	if !ok || !pkg.IsBundle() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bundle package")
	}
	if len(req.SubjectSlotMap) != pkg.SubjectsAllowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Please choose a group for each of your %d subjects.", pkg.SubjectsAllowed))
	}
	studentID, err := s.bookingStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	startDate := req.StartDate
	if startDate == "" {
		startDate = schedule.FormatDate(schedule.NextWeekday(time.Monday, s.clock.Now()))
	}
	mode := req.PaymentMode
	if mode == "" {
		mode = defaultPaymentMode
	}

	_, err = callRemote(ctx, s.remote, "book_multi_subject_block", "failed to book bundle", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.procedures.BookMultiSubjectBlock(ctx, studentID, pkg.ID, startDate, req.SubjectSlotMap, mode)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bundle booked", zap.String("student_id", studentID), zap.String("bundle", pkg.ID), zap.Int("subjects", len(req.SubjectSlotMap)))
	return &dto.BookingResult{Message: fmt.Sprintf("%s booked.", pkg.Name), StartDate: startDate}, nil
}

// EnrollBlock enrolls into the block starting at an existing instance.
func (s *BookingService) EnrollBlock(ctx context.Context, claims *models.JWTClaims, req dto.EnrollBlockRequest) (*dto.BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	studentID, err := s.bookingStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	_, err = callRemote(ctx, s.remote, "enroll_block", "failed to enroll", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.procedures.EnrollBlock(ctx, studentID, req.StartInstanceID, req.PackageID, strings.TrimSpace(req.Notes))
	})
	if err != nil {
		return nil, err
	}
	return &dto.BookingResult{Message: "Enrolled in block."}, nil
}

// RenewBlock extends the student's latest block in a slot by four weeks. Parents renew for
// their linked student.
func (s *BookingService) RenewBlock(ctx context.Context, claims *models.JWTClaims, req dto.RenewBlockRequest) (*dto.BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid renewal payload")
	}
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStudent && claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students and parents can renew blocks")
	}
	studentID := claims.StudentID()
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "No linked student on this account.")
	}

	_, err := callRemote(ctx, s.remote, "renew_4week_block", "failed to renew block", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.procedures.Renew4WeekBlock(ctx, claims.UserID, studentID, req.SlotID, req.PackageID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.BookingResult{Message: "Block renewed for the next 4 weeks."}, nil
}

// bookingStudent resolves the student a booking is made for and enforces onboarding.
func (s *BookingService) bookingStudent(ctx context.Context, claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	// Booking procedures enroll the calling identity.
	if claims.Role != models.RoleStudent {
		return "", appErrors.Clone(appErrors.ErrForbidden, "only students can book sessions")
	}
	studentID := claims.UserID
	if s.onboarding == nil {
		return studentID, nil
	}
	ok, err := s.onboarding.Exists(ctx, studentID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check onboarding")
	}
	if !ok {
		return "", appErrors.ErrOnboardingRequired
	}
	return studentID, nil
}
