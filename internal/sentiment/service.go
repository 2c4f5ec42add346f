package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/metrics"
)

const defaultWarmupTimeout = 30 * time.Second

type state int

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
	stateFailed
)

// attempt is one in-flight warm-up. err is written before done is closed,
// so readers that waited on done may read it without a lock.
type attempt struct {
	done chan struct{}
	err  error
}

// Service classifies text via an inference backend, initializing it lazily.
// Exactly one warm-up attempt is outstanding at a time; success is cached for
// the process lifetime, failure is not.
type Service struct {
	analyzer      domain.Analyzer
	backend       string
	warmupTimeout time.Duration

	mu      sync.Mutex
	st      state
	current *attempt
}

var _ domain.SentimentService = (*Service)(nil)

// NewService creates a sentiment service around the given backend.
// The backend label is used for logging and metrics only.
func NewService(analyzer domain.Analyzer, backend string) *Service {
	return &Service{
		analyzer:      analyzer,
		backend:       backend,
		warmupTimeout: defaultWarmupTimeout,
	}
}

// Ready reports whether the backend finished initializing successfully.
// It never triggers initialization itself.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st == stateReady
}

// Warmup initializes the backend, sharing any in-flight attempt.
func (s *Service) Warmup(ctx context.Context) error {
	return s.ensureReady(ctx)
}

// Analyze classifies the trimmed text. The label is normalized to positive or
// negative and the confidence is rounded to two decimal places.
func (s *Service) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	if err := s.ensureReady(ctx); err != nil {
		return domain.Analysis{}, err
	}

	trimmed := strings.TrimSpace(text)
	pred, err := s.analyzer.Predict(ctx, trimmed)
	if err != nil {
		metrics.SentimentRequestsTotal.WithLabelValues(s.backend, "failure").Inc()
		return domain.Analysis{}, fmt.Errorf("sentiment prediction failed: %w", err)
	}
	metrics.SentimentRequestsTotal.WithLabelValues(s.backend, "success").Inc()

	// Anything the backend does not call positive counts as negative.
	label := domain.LabelNegative
	if strings.EqualFold(pred.Label, string(domain.LabelPositive)) {
		label = domain.LabelPositive
	}

	return domain.Analysis{
		Label:      label,
		Confidence: math.Round(pred.Score*100) / 100,
		Text:       trimmed,
	}, nil
}

func (s *Service) ensureReady(ctx context.Context) error {
	s.mu.Lock()
	if s.st == stateReady {
		s.mu.Unlock()
		return nil
	}
	if s.st != stateInitializing {
		s.current = &attempt{done: make(chan struct{})}
		s.st = stateInitializing
		go s.runWarmup(s.current)
	}
	a := s.current
	s.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, a.err)
	}
	return nil
}

func (s *Service) runWarmup(a *attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), s.warmupTimeout)
	defer cancel()

	started := time.Now()
	a.err = s.analyzer.Warmup(ctx)

	s.mu.Lock()
	if a.err != nil {
		s.st = stateFailed
	} else {
		s.st = stateReady
	}
	s.mu.Unlock()
	close(a.done)

	if a.err != nil {
		metrics.SentimentWarmupsTotal.WithLabelValues("failure").Inc()
		slog.Error("Sentiment backend warm-up failed", "backend", s.backend, "error", a.err)
		return
	}
	metrics.SentimentWarmupsTotal.WithLabelValues("success").Inc()
	slog.Info("Sentiment backend ready", "backend", s.backend, "duration", time.Since(started))
}
