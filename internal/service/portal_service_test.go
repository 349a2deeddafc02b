package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

func portalFixture() (*instanceRepoStub, *enrollmentStub) {
	tutor := "tutor-1"
	slotA, slotB := "slot-a", "slot-b"
	url := "https://meet.example/abc"
	instances := newInstanceRepoStub(
		models.GroupInstance{ID: "inst-1", SlotID: &slotA, Label: "KS3 Maths", StartTime: "19:00", DurationMinutes: 60,
			SessionDate: strPtr("2026-02-16"), AssignedTutorID: &tutor, ClassroomURL: &url},
		models.GroupInstance{ID: "inst-2", SlotID: &slotB, Label: "KS4 English", StartTime: "7:00pm", DurationMinutes: 60,
			SessionDate: strPtr("2026-02-16"), ClassroomURL: &url},
		models.GroupInstance{ID: "inst-3", SlotID: &slotA, Label: "KS3 Maths", StartTime: "19:00",
			SessionDate: strPtr("2026-02-23"), AssignedTutorID: &tutor, ClassroomURL: &url},
	)
	student := "stu-1"
	enrollments := &enrollmentStub{items: []models.Enrollment{
		{ID: "e-1", InstanceID: "inst-1", StudentID: &student, PaymentStatus: models.PaymentStatusPaid},
		{ID: "e-2", InstanceID: "inst-2", StudentID: &student, PaymentStatus: models.PaymentStatusPending},
		{ID: "e-3", InstanceID: "inst-3", StudentID: &student, PaymentStatus: models.PaymentStatusPaid},
	}}
	return instances, enrollments
}

func newPortalServiceForTest(at time.Time) *PortalService {
	instances, enrollments := portalFixture()
	return NewPortalService(instances, enrollments, schedule.FixedClock{At: at}, schedule.DefaultPolicy, nil)
}

func TestPortalSessionsComposesGateForStudent(t *testing.T) {
	svc := newPortalServiceForTest(time.Date(2026, 2, 16, 18, 55, 0, 0, time.UTC))

	result, err := svc.Sessions(context.Background(), studentClaims("stu-1"))
	require.NoError(t, err)
	require.Len(t, result.Sessions, 3)

	byID := map[string]int{}
	for i, s := range result.Sessions {
		byID[s.Instance.ID] = i
	}

	paid := result.Sessions[byID["inst-1"]]
	assert.Equal(t, schedule.StateJoin, paid.Access.State)
	assert.True(t, paid.Gate.Allowed)
	assert.Equal(t, "Mon 16 Feb 2026 • 19:00", paid.Schedule)
	require.NotNil(t, paid.Instance.ClassroomURL)

	pending := result.Sessions[byID["inst-2"]]
	assert.Equal(t, schedule.ReasonPaymentPending, pending.Gate.Reason)
	assert.Nil(t, pending.Instance.ClassroomURL)
	assert.True(t, pending.PendingRenewal)
	require.NotNil(t, pending.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPending, *pending.PaymentStatus)

	later := result.Sessions[byID["inst-3"]]
	assert.Equal(t, schedule.StateCountdown, later.Access.State)
	assert.Equal(t, schedule.ReasonWindowNotOpen, later.Gate.Reason)
	assert.Nil(t, later.Instance.ClassroomURL)
	assert.False(t, later.PendingRenewal)
}

func TestPortalSessionsParentWithoutLinkIsEmpty(t *testing.T) {
	svc := newPortalServiceForTest(time.Date(2026, 2, 16, 18, 55, 0, 0, time.UTC))

	result, err := svc.Sessions(context.Background(), parentClaims("parent-1", ""))
	require.NoError(t, err)
	assert.Empty(t, result.Sessions)
}

func TestPortalSessionsTutorSeesAssignedOnly(t *testing.T) {
	svc := newPortalServiceForTest(time.Date(2026, 2, 16, 18, 55, 0, 0, time.UTC))

	result, err := svc.Sessions(context.Background(), tutorClaims("tutor-1"))
	require.NoError(t, err)
	require.Len(t, result.Sessions, 2)
	for _, s := range result.Sessions {
		assert.NotNil(t, s.Instance.ClassroomURL)
	}
}

func TestPortalJoin(t *testing.T) {
	at := time.Date(2026, 2, 16, 18, 55, 0, 0, time.UTC)

	t.Run("paid student inside window", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		resp, err := svc.Join(context.Background(), studentClaims("stu-1"), "inst-1")
		require.NoError(t, err)
		assert.Equal(t, "https://meet.example/abc", resp.ClassroomURL)
		assert.Equal(t, schedule.LabelJoin, resp.Label)
	})

	t.Run("parent acts for linked student", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		resp, err := svc.Join(context.Background(), parentClaims("parent-1", "stu-1"), "inst-1")
		require.NoError(t, err)
		assert.Equal(t, "inst-1", resp.InstanceID)
	})

	t.Run("pending payment is forbidden", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		_, err := svc.Join(context.Background(), studentClaims("stu-1"), "inst-2")
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusForbidden, appErr.Status)
		assert.Equal(t, string(schedule.ReasonPaymentPending), appErr.Code)
	})

	t.Run("not enrolled is forbidden", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		_, err := svc.Join(context.Background(), studentClaims("stu-2"), "inst-1")
		assert.Equal(t, string(schedule.ReasonNotEnrolled), appErrors.FromError(err).Code)
	})

	t.Run("window not open is a conflict", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		_, err := svc.Join(context.Background(), studentClaims("stu-1"), "inst-3")
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusConflict, appErr.Status)
		assert.Equal(t, string(schedule.ReasonWindowNotOpen), appErr.Code)
	})

	t.Run("unassigned tutor is forbidden", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		_, err := svc.Join(context.Background(), tutorClaims("tutor-2"), "inst-1")
		assert.True(t, errorsIs(err, appErrors.ErrForbidden))
	})

	t.Run("assigned tutor starts classroom", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		resp, err := svc.Join(context.Background(), tutorClaims("tutor-1"), "inst-1")
		require.NoError(t, err)
		assert.Equal(t, "Start Classroom", resp.Label)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := newPortalServiceForTest(at)
		_, err := svc.Join(context.Background(), studentClaims("stu-1"), "missing")
		assert.True(t, errorsIs(err, appErrors.ErrNotFound))
	})
}

func TestServicesDefaultToSystemClock(t *testing.T) {
	policy := schedule.WindowPolicy{}
	clocks := map[string]schedule.Clock{
		"portal":       NewPortalService(nil, nil, nil, policy, nil).clock,
		"calendar":     NewCalendarService(nil, nil, nil, policy, "", nil).clock,
		"watcher":      NewAccessWatcher(nil, nil, nil, policy, nil).clock,
		"booking":      NewBookingService(nil, nil, nil, nil, nil, nil, nil).clock,
		"block":        NewBlockService(BlockServiceDeps{}, nil, nil).clock,
		"announcement": NewAnnouncementService(nil, nil, nil, nil).clock,
	}
	for name, clock := range clocks {
		assert.IsType(t, schedule.SystemClock{}, clock, name)
	}
}
