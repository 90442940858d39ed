package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://localhost:5432/app?sslmode=disable")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_CALLBACK_URL", "http://localhost:8080/auth/google/callback")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.JWTSecret, "absent secret must load, not fail")
	assert.Equal(t, "http://localhost:3000/auth/callback", cfg.Frontend.CallbackURL)
	assert.Equal(t, "/auth/failure", cfg.Frontend.FailureURL)
	assert.Equal(t, "*", cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "configured-secret")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("FRONTEND_CALLBACK_URL", "https://dash.example.com/auth/callback")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "configured-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://dash.example.com/auth/callback", cfg.Frontend.CallbackURL)
}
