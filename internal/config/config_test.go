package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.True(t, cfg.Audit.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUDIT_QUEUE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 256, cfg.Audit.QueueSize)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}
