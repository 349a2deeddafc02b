package schedule

import "github.com/noah-isme/tuition-portal-api/internal/models"

// GateReason explains a join decision.
type GateReason string

const (
	ReasonJoinable        GateReason = "JOINABLE"
	ReasonNotEnrolled     GateReason = "NOT_ENROLLED"
	ReasonPaymentPending  GateReason = "PAYMENT_PENDING"
	ReasonWindowNotOpen   GateReason = "WINDOW_NOT_OPEN"
	ReasonSessionComplete GateReason = "SESSION_COMPLETE"
	ReasonNoLiveLink      GateReason = "NO_LIVE_LINK"
)

// GateDecision is the composed result of window, link and payment checks.
type GateDecision struct {
	Allowed bool       `json:"allowed"`
	Reason  GateReason `json:"reason"`
	Label   string     `json:"label"`
}

// Gate composes the access window with enrollment payment and the classroom link.
// Admins and tutors skip the payment check but stay bound by the window.
func Gate(inst models.GroupInstance, enrollment *models.Enrollment, access SessionAccess, role models.UserRole) GateDecision {
	staff := role.IsStaff()

	if !staff {
		if enrollment == nil {
			return GateDecision{Reason: ReasonNotEnrolled, Label: "Not Enrolled"}
		}
		if !enrollment.IsPaid() {
			return GateDecision{Reason: ReasonPaymentPending, Label: "Status: Pending"}
		}
	}

	switch {
	case access.State == StatePast:
		return GateDecision{Reason: ReasonSessionComplete, Label: LabelComplete}
	case access.State != StateJoin || !access.Enabled:
		return GateDecision{Reason: ReasonWindowNotOpen, Label: access.Label}
	}

	if !inst.HasClassroomURL() {
		if staff {
			return GateDecision{Reason: ReasonNoLiveLink, Label: "No Link Set"}
		}
		return GateDecision{Reason: ReasonNoLiveLink, Label: "No Live Link Set Yet"}
	}

	if staff {
		return GateDecision{Allowed: true, Reason: ReasonJoinable, Label: "Start Classroom"}
	}
	return GateDecision{Allowed: true, Reason: ReasonJoinable, Label: LabelJoin}
}

// CanJoin reports whether the caller may open the live classroom.
func CanJoin(inst models.GroupInstance, enrollment *models.Enrollment, access SessionAccess, role models.UserRole) bool {
	return Gate(inst, enrollment, access, role).Allowed
}
