package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/moodpulse/internal/config"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/ledger"
	"github.com/pscheid92/moodpulse/internal/logging"
	"github.com/pscheid92/moodpulse/internal/ratelimit"
	"github.com/pscheid92/moodpulse/internal/sentiment"
	"github.com/pscheid92/moodpulse/internal/server"
)

func buildAnalyzer(cfg *config.Config) (domain.Analyzer, error) {
	switch cfg.SentimentBackend {
	case config.BackendHuggingFace:
		return sentiment.NewHuggingFaceAnalyzer(cfg.HuggingFaceURL, cfg.HuggingFaceToken), nil
	case config.BackendOpenAI:
		return sentiment.NewOpenAIAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case config.BackendLexicon:
		return sentiment.NewLexiconAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q", cfg.SentimentBackend)
	}
}

func runGracefulShutdown(srv *server.Server, timeout time.Duration) <-chan int {
	done := make(chan int, 1)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, draining connections...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
			done <- 1
			return
		}
		done <- 0
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		slog.Error("Failed to build sentiment backend", "error", err)
		os.Exit(1)
	}

	svc := sentiment.NewService(analyzer, cfg.SentimentBackend)
	if cfg.SentimentWarmupOnStart {
		go func() {
			if err := svc.Warmup(context.Background()); err != nil {
				slog.Warn("Startup warm-up failed, will retry on first request", "error", err)
			}
		}()
	}

	moods := ledger.New(cfg.MoodHistoryLimit, clock)
	gate := ratelimit.NewLimiter(cfg.RateLimitWindow(), cfg.RateLimitMax, clock)

	srv := server.NewServer(cfg, svc, moods, gate, clock)

	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	os.Exit(<-done)
}
