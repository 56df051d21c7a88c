package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "./data/coachdesk.db", cfg.SQLitePath)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, "./documents", cfg.DocDir)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 0, cfg.MaxConnsPerRoom)
	assert.False(t, cfg.AutoBlockEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CHAT_HISTORY_LIMIT", "25")
	t.Setenv("CHAT_MAX_CONNS_PER_ROOM", "100")
	t.Setenv("AUTO_BLOCK_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, 100, cfg.MaxConnsPerRoom)
	assert.True(t, cfg.AutoBlockEnabled)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("CHAT_HISTORY_LIMIT", "lots")

	cfg := Load()
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestLoadWhitelist(t *testing.T) {
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 192.168.0.0/16 ,")

	cfg := Load()
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
}

func TestProductionRequiresBackends(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	assert.Panics(t, func() { Load() })

	t.Setenv("DATABASE_URL", "postgres://coachdesk:pw@localhost/coachdesk")
	assert.Panics(t, func() { Load() })

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	assert.NotPanics(t, func() { Load() })
}
