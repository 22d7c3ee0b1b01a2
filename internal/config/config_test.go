package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 2*time.Hour, cfg.UserTokenTTL)
	assert.Equal(t, time.Hour, cfg.StudentTokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, "https://vote-r.vercel.app", cfg.FrontendURL)
	assert.Equal(t, []string{"https://vote-r.vercel.app", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AllowSkipVerification)
	assert.Equal(t, "dynamo", cfg.LoginCodeStore)
	assert.Equal(t, "votes", cfg.DynamoTables.Votes)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("USER_TOKEN_TTL", "30m")
	t.Setenv("OTP_TTL", "120")
	t.Setenv("FRONTEND_URL", "http://localhost:5173/")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("ALLOW_SKIP_VERIFICATION", "false")
	t.Setenv("LOGIN_CODE_STORE", "badger")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 30*time.Minute, cfg.UserTokenTTL)
	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AllowSkipVerification)
	assert.Equal(t, "badger", cfg.LoginCodeStore)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.TrustedProxies)
}

func TestGetEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")
	assert.Equal(t, time.Hour, getEnvDuration("RESET_TOKEN_TTL", time.Hour))
}

func TestGetEnvBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("ALLOW_SKIP_VERIFICATION", "maybe")
	assert.True(t, getEnvBool("ALLOW_SKIP_VERIFICATION", true))
}
