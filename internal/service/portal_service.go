package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

// PortalService composes instances with the join window, payment and the gate for the caller.
type PortalService struct {
	scope  instanceScope
	clock  schedule.Clock
	policy schedule.WindowPolicy
	logger *zap.Logger
}

// NewPortalService creates an instance of PortalService.
func NewPortalService(instances instanceRepository, enrollments enrollmentReader, clock schedule.Clock, policy schedule.WindowPolicy, logger *zap.Logger) *PortalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &PortalService{
		scope:  instanceScope{instances: instances, enrollments: enrollments},
		clock:  clock,
		policy: policy,
		logger: logger,
	}
}

// Sessions evaluates every visible instance at one instant.
func (s *PortalService) Sessions(ctx context.Context, claims *models.JWTClaims) (*dto.PortalSessions, error) {
	instances, enrollments, err := s.scope.visible(ctx, claims, models.InstanceFilter{})
	if err != nil {
		return nil, wrapInternal(err, "failed to load sessions")
	}

	byInstance := latestEnrollments(enrollments)
	pending := pendingRenewalsBySlot(instances, byInstance)
	now := s.clock.Now()

	result := &dto.PortalSessions{EvaluatedAt: now.Format(time.RFC3339), Sessions: make([]dto.PortalSession, 0, len(instances))}
	for _, inst := range instances {
		access := s.policy.Evaluate(inst, now)
		enrollment := byInstance[inst.ID]
		session := dto.PortalSession{
			Instance: inst,
			Schedule: schedule.FormatSchedule(inst.SessionDate, inst.StartTime),
			Access:   access,
			Gate:     schedule.Gate(inst, enrollment, access, claims.Role),
		}
		if enrollment != nil {
			status := enrollment.PaymentStatus
			session.PaymentStatus = &status
		}
		if inst.SlotID != nil {
			session.PendingRenewal = pending[*inst.SlotID]
		}
		if !session.Gate.Allowed && !claims.Role.IsStaff() {
			session.Instance.ClassroomURL = nil
		}
		result.Sessions = append(result.Sessions, session)
	}
	return result, nil
}

// Join returns the live link once the gate allows it.
func (s *PortalService) Join(ctx context.Context, claims *models.JWTClaims, instanceID string) (*dto.JoinResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	inst, err := s.scope.find(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	var enrollment *models.Enrollment
	if claims.Role.IsStaff() {
		if err := ensureCanTeach(claims, inst); err != nil {
			return nil, err
		}
	} else if studentID := claims.StudentID(); studentID != "" {
		enrollment, err = s.scope.enrollments.FindForStudent(ctx, inst.ID, studentID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
		}
	}

	access := s.policy.Evaluate(*inst, s.clock.Now())
	decision := schedule.Gate(*inst, enrollment, access, claims.Role)
	if !decision.Allowed {
		return nil, gateError(decision)
	}

	return &dto.JoinResponse{
		InstanceID:        inst.ID,
		ClassroomURL:      derefString(inst.ClassroomURL),
		ClassroomProvider: inst.ClassroomProvider,
		Label:             decision.Label,
	}, nil
}

func gateError(decision schedule.GateDecision) *appErrors.Error {
	status := http.StatusConflict
	switch decision.Reason {
	case schedule.ReasonNotEnrolled, schedule.ReasonPaymentPending:
		status = http.StatusForbidden
	}
	return appErrors.New(string(decision.Reason), status, decision.Label)
}

// latestEnrollments keys enrollments by instance. Input is newest first so the first row wins.
func latestEnrollments(enrollments []models.Enrollment) map[string]*models.Enrollment {
	out := make(map[string]*models.Enrollment, len(enrollments))
	for i := range enrollments {
		if _, ok := out[enrollments[i].InstanceID]; ok {
			continue
		}
		out[enrollments[i].InstanceID] = &enrollments[i]
	}
	return out
}

// pendingRenewalsBySlot flags slots where the caller holds an unpaid enrollment.
func pendingRenewalsBySlot(instances []models.GroupInstance, enrollments map[string]*models.Enrollment) map[string]bool {
	out := make(map[string]bool)
	for _, inst := range instances {
		if inst.SlotID == nil {
			continue
		}
		if e, ok := enrollments[inst.ID]; ok && !e.IsPaid() {
			out[*inst.SlotID] = true
		}
	}
	return out
}
