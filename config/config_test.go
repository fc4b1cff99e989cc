package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, AuthModeHeader, cfg.Auth.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ViewTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Images.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/dash")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("VIEW_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@localhost/dash", cfg.Database.DSN)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid int falls back to default")
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.ViewTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Database:  DatabaseConfig{Host: "localhost"},
			Auth:      AuthConfig{Mode: AuthModeHeader},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		c := base()
		c.Auth.Mode = "basic"
		assert.Error(t, c.Validate())
	})

	t.Run("firebase without credentials", func(t *testing.T) {
		c := base()
		c.Auth.Mode = AuthModeFirebase
		assert.Error(t, c.Validate())
	})

	t.Run("bucket without public url", func(t *testing.T) {
		c := base()
		c.Images.Bucket = "project-images"
		assert.Error(t, c.Validate())
	})

	t.Run("missing database", func(t *testing.T) {
		c := base()
		c.Database.Host = ""
		assert.Error(t, c.Validate())
	})

	t.Run("non-positive rate limit", func(t *testing.T) {
		c := base()
		c.RateLimit.Burst = 0
		assert.Error(t, c.Validate())
	})
}
