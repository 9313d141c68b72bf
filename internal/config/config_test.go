package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "DB_NAME", "JWT_SECRET", "PORT", "REQUEST_TIMEOUT_SECONDS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	require.Equal(t, "rebook", cfg.DBName)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 20.0, cfg.RateLimitRPS)
	require.Equal(t, 40, cfg.RateLimitBurst)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "MONGO_URI")
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "9")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "-1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 9*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2.5, cfg.RateLimitRPS)
	require.Equal(t, 40, cfg.RateLimitBurst, "invalid values fall back to the default")
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
