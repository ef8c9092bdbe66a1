package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8780", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 480*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "0 8 * * *", cfg.ReserveCheckSpec)
	assert.Equal(t, 90*24*time.Hour, cfg.ReserveContactWindow)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:3000")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("ACCESS_TOKEN_MINUTES", "60")
	t.Setenv("RESERVE_CONTACT_DAYS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://panel.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.ReserveContactWindow)
	assert.Equal(t, []string{"https://panel.example.com"}, cfg.AllowedOrigins)
}

func TestGetEnvAsBoolInvalid(t *testing.T) {
	t.Setenv("BUNDEBUG", "not-a-bool")
	cfg := Load()
	assert.False(t, cfg.BunDebug)
}
