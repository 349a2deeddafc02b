package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClockAdvances(t *testing.T) {
	clock := SystemClock{}
	first := clock.Now()
	assert.Equal(t, time.UTC, first.Location())

	time.Sleep(2 * time.Millisecond)
	assert.True(t, clock.Now().After(first))
}

func TestVenueClockUsesDefaultZone(t *testing.T) {
	clock, err := NewVenueClock("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVenueTimezone, clock.Location().String())

	_, err = NewVenueClock("Mars/Olympus")
	assert.Error(t, err)
}
