package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, "Europe/London", cfg.Access.VenueTimezone)
	assert.Equal(t, 10*time.Minute, cfg.Access.OpensEarly)
	assert.Equal(t, 15*time.Minute, cfg.Access.ClosesLate)
	assert.Equal(t, time.Hour, cfg.Access.DefaultDuration)
	assert.Equal(t, 30*time.Second, cfg.Access.TickInterval)
	assert.Equal(t, 20*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, []string{"authenticated"}, cfg.JWT.Audience)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("REMOTE_CALL_TIMEOUT", "5s")
	v.Set("ACCESS_TICK_INTERVAL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("IDENTITY_URL", "https://auth.example/")

	cfg := fromViper(v)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Access.TickInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://auth.example", cfg.Identity.URL)
}
