package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Sentiment backend selectors.
const (
	BackendLexicon     = "lexicon"
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	Port       string `env:"PORT" default:"3000"`
	CORSOrigin string `env:"CORS_ORIGIN" default:"*"`
	LogLevel   string `env:"LOG_LEVEL" default:"info"`
	LogFormat  string `env:"LOG_FORMAT" default:"text"`

	// RateLimitWindowMS is the admission window in milliseconds.
	RateLimitWindowMS int64 `env:"RATE_LIMIT_WINDOW" default:"900000"`
	RateLimitMax      int   `env:"RATE_LIMIT_MAX" default:"100"`

	MoodHistoryLimit int `env:"MOOD_HISTORY_LIMIT" default:"1000"`

	SentimentBackend       string `env:"SENTIMENT_BACKEND" default:"lexicon"`
	SentimentWarmupOnStart bool   `env:"SENTIMENT_WARMUP_ON_START" default:"false"`
	HuggingFaceURL         string `env:"HUGGINGFACE_URL"`
	HuggingFaceToken       string `env:"HUGGINGFACE_TOKEN"`
	OpenAIAPIKey           string `env:"OPENAI_API_KEY"`
	OpenAIModel            string `env:"OPENAI_MODEL"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RateLimitWindowMS <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %d", cfg.RateLimitWindowMS)
	}
	if cfg.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimitMax)
	}
	if cfg.MoodHistoryLimit <= 0 {
		return fmt.Errorf("MOOD_HISTORY_LIMIT must be positive, got %d", cfg.MoodHistoryLimit)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}

	switch cfg.SentimentBackend {
	case BackendLexicon:
	case BackendHuggingFace:
		if cfg.HuggingFaceURL == "" {
			return fmt.Errorf("HUGGINGFACE_URL is required when SENTIMENT_BACKEND is %s", BackendHuggingFace)
		}
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SENTIMENT_BACKEND is %s", BackendOpenAI)
		}
	default:
		return fmt.Errorf("SENTIMENT_BACKEND must be one of %s, %s, %s; got %q",
			BackendLexicon, BackendHuggingFace, BackendOpenAI, cfg.SentimentBackend)
	}

	return nil
}

// RateLimitWindow returns the admission window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}
