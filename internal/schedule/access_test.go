package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

func strPtr(v string) *string { return &v }

func eveningSession() models.GroupInstance {
	return models.GroupInstance{
		ID:              "inst-1",
		SessionDate:     strPtr("2026-02-16"),
		StartTime:       "19:00",
		DurationMinutes: 60,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, time.February, 16, hour, minute, second, 0, time.UTC)
}

func TestEvaluateScenario(t *testing.T) {
	inst := eveningSession()

	cases := []struct {
		name  string
		now   time.Time
		state AccessState
		label string
	}{
		{"nine minutes before start", at(18, 51, 0), StateJoin, LabelJoin},
		{"exactly ten minutes before", at(18, 50, 0), StateJoin, LabelJoin},
		{"ten minutes and a second before", at(18, 49, 59), StateCountdown, "Opens in 0m"},
		{"morning of the session", at(10, 0, 0), StateCountdown, "Opens in 8h 50m"},
		{"one second before close", at(20, 14, 59), StateJoin, LabelJoin},
		{"exactly at close", at(20, 15, 0), StateJoin, LabelJoin},
		{"one second after close", at(20, 15, 1), StatePast, LabelComplete},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			access := Evaluate(inst, tc.now)
			assert.Equal(t, tc.state, access.State)
			assert.Equal(t, tc.label, access.Label)
			assert.Equal(t, tc.state == StateJoin, access.Enabled)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	inst := eveningSession()
	now := at(18, 55, 30)
	assert.Equal(t, Evaluate(inst, now), Evaluate(inst, now))
}

func TestEvaluatePastIsTerminal(t *testing.T) {
	inst := eveningSession()
	for _, offset := range []time.Duration{time.Second, time.Hour, 48 * time.Hour, 400 * 24 * time.Hour} {
		access := Evaluate(inst, at(20, 15, 0).Add(offset))
		assert.Equal(t, StatePast, access.State)
		assert.False(t, access.Enabled)
	}
}

func TestEvaluateWithoutDateIsTBC(t *testing.T) {
	inst := eveningSession()
	inst.SessionDate = nil

	for _, now := range []time.Time{at(0, 0, 0), at(19, 0, 0), at(23, 59, 59).AddDate(1, 0, 0)} {
		access := Evaluate(inst, now)
		assert.Equal(t, SessionAccess{State: StateCountdown, Label: LabelTBC}, access)
	}
}

func TestEvaluateMalformedInputsAreTBC(t *testing.T) {
	cases := map[string]models.GroupInstance{
		"bad date format": {SessionDate: strPtr("16/02/2026"), StartTime: "19:00"},
		"impossible date": {SessionDate: strPtr("2026-02-30"), StartTime: "19:00"},
		"missing time":    {SessionDate: strPtr("2026-02-16")},
		"garbage time":    {SessionDate: strPtr("2026-02-16"), StartTime: "evening"},
	}
	for name, inst := range cases {
		t.Run(name, func(t *testing.T) {
			access := Evaluate(inst, at(19, 0, 0))
			assert.Equal(t, StateCountdown, access.State)
			assert.Equal(t, LabelTBC, access.Label)
			assert.False(t, access.Enabled)
		})
	}
}

func TestEvaluateDefaultsDuration(t *testing.T) {
	inst := eveningSession()
	inst.DurationMinutes = 0

	assert.Equal(t, StateJoin, Evaluate(inst, at(20, 15, 0)).State)
	assert.Equal(t, StatePast, Evaluate(inst, at(20, 15, 1)).State)
}

func TestEvaluateLongerSessionClosesLater(t *testing.T) {
	inst := eveningSession()
	inst.DurationMinutes = 90

	assert.Equal(t, StateJoin, Evaluate(inst, at(20, 45, 0)).State)
	assert.Equal(t, StatePast, Evaluate(inst, at(20, 45, 1)).State)
}

func TestEvaluateUsesNowLocation(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	inst := models.GroupInstance{SessionDate: strPtr("2026-07-06"), StartTime: "7:00pm", DurationMinutes: 60}
	now := time.Date(2026, time.July, 6, 18, 55, 0, 0, london)

	access := Evaluate(inst, now)
	require.Equal(t, StateJoin, access.State)
	require.NotNil(t, access.StartsAt)
	assert.Equal(t, 19, access.StartsAt.Hour())
	assert.Equal(t, london, access.StartsAt.Location())
}

func TestCountdownLabel(t *testing.T) {
	assert.Equal(t, "Opens in 2d 0h", CountdownLabel(48*time.Hour+50*time.Minute))
	assert.Equal(t, "Opens in 1h 0m", CountdownLabel(time.Hour+59*time.Second))
	assert.Equal(t, "Opens in 59m", CountdownLabel(59*time.Minute+59*time.Second))
	assert.Equal(t, "Opens in 0m", CountdownLabel(time.Second))
}

func TestCustomPolicy(t *testing.T) {
	policy := WindowPolicy{OpensEarly: 5 * time.Minute, ClosesLate: 0, DefaultDuration: time.Hour}
	inst := eveningSession()

	assert.Equal(t, StateCountdown, policy.Evaluate(inst, at(18, 54, 0)).State)
	assert.Equal(t, StateJoin, policy.Evaluate(inst, at(18, 55, 0)).State)
}
