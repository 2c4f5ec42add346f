package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, int64(900000), cfg.RateLimitWindowMS)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 1000, cfg.MoodHistoryLimit)
	assert.Equal(t, BackendLexicon, cfg.SentimentBackend)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.SentimentWarmupOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGIN", "https://app.example.com")
	t.Setenv("RATE_LIMIT_WINDOW", "60000")
	t.Setenv("RATE_LIMIT_MAX", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://app.example.com", cfg.CORSOrigin)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow())
	assert.Equal(t, 5, cfg.RateLimitMax)
}

func TestLoad_InvalidWindow(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")
}

func TestLoad_InvalidCeiling(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_MAX")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("SENTIMENT_BACKEND", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENTIMENT_BACKEND")
}

func TestLoad_HuggingFaceRequiresURL(t *testing.T) {
	t.Setenv("SENTIMENT_BACKEND", "huggingface")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HUGGINGFACE_URL")
}

func TestLoad_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("SENTIMENT_BACKEND", "openai")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_OpenAIConfigured(t *testing.T) {
	t.Setenv("SENTIMENT_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, cfg.SentimentBackend)
}
