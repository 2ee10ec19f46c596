package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("DEFAULT_CURRENCY", "")

	cfg := Load()

	assert.Equal(t, LockBackendMemory, cfg.LockBackend)
	assert.Equal(t, 300*time.Second, cfg.CacheTTLDuration())
	assert.Equal(t, "UGX", cfg.DefaultCurrency)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("LOCK_TTL_SECONDS", "12")
	t.Setenv("RESET_SCHEMA", "true")
	t.Setenv("DEFAULT_CURRENCY", "kes")

	cfg := Load()

	assert.Equal(t, LockBackendRedis, cfg.LockBackend)
	assert.Equal(t, 12*time.Second, cfg.LockTTLDuration())
	assert.True(t, cfg.ResetSchema)
	assert.Equal(t, "KES", cfg.DefaultCurrency)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown backend", Config{LockBackend: "etcd", LockTTL: 1, CacheTTL: 1}},
		{"redis without url", Config{LockBackend: LockBackendRedis, LockTTL: 1, CacheTTL: 1}},
		{"zero lock ttl", Config{LockBackend: LockBackendMemory, CacheTTL: 1}},
		{"zero cache ttl", Config{LockBackend: LockBackendMemory, LockTTL: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	assert.Equal(t, 300, Load().CacheTTL)
}
