package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 168*time.Hour, cfg.HistoryTTL)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 9, cfg.BusinessOpenHour)
	assert.Equal(t, 18, cfg.BusinessCloseHour)
	assert.Equal(t, "San Juan Motors", cfg.DealershipName)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("BUSINESS_CLOSE_HOUR", "20")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, 20, cfg.BusinessCloseHour)
}

func TestInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "lots")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
}
