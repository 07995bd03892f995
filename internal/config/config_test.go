package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("SECRET_KEY", "secret-key")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "@hourly", cfg.UserSyncSchedule)
		assert.Equal(t, "@daily", cfg.KeyAuditSchedule)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("missing required variable", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt-secret")
		t.Setenv("SECRET_KEY", "secret-key")
		t.Setenv("DATABASE_URL", "placeholder")
		os.Unsetenv("DATABASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", "9090")
		t.Setenv("READ_TIMEOUT", "5s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
		assert.True(t, cfg.IsProduction())
	})
}

func TestAllowedCORSOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://localhost:3000, https://app.example.com ,"}
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedCORSOrigins())
}
