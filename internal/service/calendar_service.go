package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
)

const calendarProductID = "-//Tuition Portal//Sessions//EN"

// CalendarService renders the caller's dated sessions as an iCalendar feed.
type CalendarService struct {
	scope   instanceScope
	clock   schedule.Clock
	policy  schedule.WindowPolicy
	company string
	logger  *zap.Logger
}

// NewCalendarService constructs the feed builder. The clock location is the venue zone.
func NewCalendarService(instances instanceRepository, enrollments enrollmentReader, clock schedule.Clock, policy schedule.WindowPolicy, company string, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	if company == "" {
		company = models.DefaultPlatformSettings.CompanyName
	}
	return &CalendarService{
		scope:   instanceScope{instances: instances, enrollments: enrollments},
		clock:   clock,
		policy:  policy,
		company: company,
		logger:  logger,
	}
}

// Feed returns the serialized calendar. Instances without a usable date or start time are omitted.
func (s *CalendarService) Feed(ctx context.Context, claims *models.JWTClaims) (string, error) {
	instances, enrollments, err := s.scope.visible(ctx, claims, models.InstanceFilter{})
	if err != nil {
		return "", wrapInternal(err, "failed to load sessions")
	}
	byInstance := latestEnrollments(enrollments)
	now := s.clock.Now()
	loc := now.Location()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(s.company + " Sessions")
	cal.SetXWRTimezone(loc.String())

	skipped := 0
	for _, inst := range instances {
		if inst.SessionDate == nil {
			skipped++
			continue
		}
		start, ok := schedule.SessionStart(*inst.SessionDate, inst.StartTime, loc)
		if !ok {
			skipped++
			continue
		}
		duration := time.Duration(inst.DurationMinutes) * time.Minute
		if duration <= 0 {
			duration = s.policy.DefaultDuration
		}
		if duration <= 0 {
			duration = schedule.DefaultPolicy.DefaultDuration
		}

		event := cal.AddEvent(inst.ID + "@tuition-portal")
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(duration))
		event.SetSummary(inst.Label)

		description := []string{fmt.Sprintf("%s %s group", inst.KeyStage, inst.GroupType)}
		if inst.TutorName != nil && *inst.TutorName != "" {
			description = append(description, "Tutor: "+*inst.TutorName)
		}
		access := s.policy.Evaluate(inst, now)
		decision := schedule.Gate(inst, byInstance[inst.ID], access, claims.Role)
		if decision.Allowed {
			event.SetURL(*inst.ClassroomURL)
			if inst.ClassroomProvider != nil {
				event.SetLocation(*inst.ClassroomProvider)
			}
		} else {
			description = append(description, decision.Label)
		}
		event.SetDescription(strings.Join(description, "\n"))
	}

	s.logger.Debug("calendar feed built",
		zap.String("user_id", claims.UserID),
		zap.Int("events", len(instances)-skipped),
		zap.Int("skipped", skipped),
	)
	return cal.Serialize(), nil
}
