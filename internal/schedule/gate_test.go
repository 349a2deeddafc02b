package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

func joinable() SessionAccess {
	return SessionAccess{State: StateJoin, Label: LabelJoin, Enabled: true}
}

func withLink(inst models.GroupInstance) models.GroupInstance {
	inst.ClassroomURL = strPtr("https://meet.example/abc")
	return inst
}

func TestGateStudentRequiresPayment(t *testing.T) {
	inst := withLink(eveningSession())
	pending := &models.Enrollment{PaymentStatus: models.PaymentStatusPending}

	decision := Gate(inst, pending, joinable(), models.RoleStudent)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonPaymentPending, decision.Reason)
	assert.False(t, CanJoin(inst, pending, joinable(), models.RoleParent))

	paid := &models.Enrollment{PaymentStatus: models.PaymentStatusPaid}
	assert.True(t, CanJoin(inst, paid, joinable(), models.RoleStudent))
}

func TestGateBlankStatusIsPending(t *testing.T) {
	inst := withLink(eveningSession())
	decision := Gate(inst, &models.Enrollment{}, joinable(), models.RoleStudent)
	assert.Equal(t, ReasonPaymentPending, decision.Reason)
}

func TestGateStudentWithoutEnrollment(t *testing.T) {
	decision := Gate(withLink(eveningSession()), nil, joinable(), models.RoleStudent)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotEnrolled, decision.Reason)
}

func TestGateStaffBypassesPaymentButNotWindow(t *testing.T) {
	inst := withLink(eveningSession())

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleTutor} {
		decision := Gate(inst, nil, joinable(), role)
		assert.True(t, decision.Allowed)
		assert.Equal(t, "Start Classroom", decision.Label)

		countdown := SessionAccess{State: StateCountdown, Label: "Opens in 3m"}
		decision = Gate(inst, nil, countdown, role)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonWindowNotOpen, decision.Reason)
		assert.Equal(t, "Opens in 3m", decision.Label)
	}
}

func TestGateMissingLinkIsDistinct(t *testing.T) {
	inst := eveningSession()
	inst.ClassroomURL = strPtr("   ")
	paid := &models.Enrollment{PaymentStatus: models.PaymentStatusPaid}

	decision := Gate(inst, paid, joinable(), models.RoleStudent)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoLiveLink, decision.Reason)
	assert.Equal(t, "No Live Link Set Yet", decision.Label)

	decision = Gate(inst, nil, joinable(), models.RoleTutor)
	assert.Equal(t, ReasonNoLiveLink, decision.Reason)
	assert.Equal(t, "No Link Set", decision.Label)
}

func TestGatePastSession(t *testing.T) {
	paid := &models.Enrollment{PaymentStatus: models.PaymentStatusPaid}
	past := SessionAccess{State: StatePast, Label: LabelComplete}

	decision := Gate(withLink(eveningSession()), paid, past, models.RoleStudent)
	assert.Equal(t, ReasonSessionComplete, decision.Reason)
	assert.Equal(t, LabelComplete, decision.Label)
}
