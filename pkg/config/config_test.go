package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.LLM.Retries)
	assert.Equal(t, 3*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, "openai", cfg.LLM.TripProvider)
	assert.True(t, cfg.Enrichment.WeatherEnabled)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_RETRIES", "4")
	t.Setenv("LLM_RETRY_BACKOFF", "250ms")
	t.Setenv("ENRICHMENT_TIMEOUT", "2s")
	t.Setenv("SEARCH_ENABLED", "false")
	t.Setenv("TRIP_PROVIDER", "Gemini")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://planner.example.com")
	t.Setenv("POSTGRES_URL", "postgres://trips@localhost/trips")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 4, cfg.LLM.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RetryBackoff)
	assert.Equal(t, 2*time.Second, cfg.Enrichment.Timeout)
	assert.False(t, cfg.Enrichment.SearchEnabled)
	assert.Equal(t, "gemini", cfg.LLM.TripProvider)
	assert.Equal(t, []string{"http://localhost:5173", "https://planner.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.DatabaseEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("LLM_RETRIES", "12")

	_, err := FromEnv()
	assert.Error(t, err)
}
