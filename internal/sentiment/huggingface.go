package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"golang.org/x/time/rate"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/metrics"
)

const (
	hfRequestTimeout  = 15 * time.Second
	hfWarmupProbe     = "hello"
	hfMaxLoadingWait  = 10 * time.Second
	hfDefaultLoadWait = 2 * time.Second
)

// HuggingFaceAnalyzer calls a hosted text-classification endpoint. Hosted
// models cold-start, so Warmup probes until the model stops reporting that
// it is loading. Outbound calls go through a circuit breaker and a token
// bucket throttle.
type HuggingFaceAnalyzer struct {
	endpoint string
	token    string
	client   *http.Client
	breaker  circuitbreaker.CircuitBreaker[any]
	limiter  *rate.Limiter
}

var _ domain.Analyzer = (*HuggingFaceAnalyzer)(nil)

func NewHuggingFaceAnalyzer(endpoint, token string) *HuggingFaceAnalyzer {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "huggingface",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			metrics.CircuitBreakerStateChanges.WithLabelValues("huggingface", e.NewState.String()).Inc()
		}).
		Build()

	return &HuggingFaceAnalyzer{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: hfRequestTimeout},
		breaker:  cb,
		limiter:  rate.NewLimiter(rate.Limit(10), 10),
	}
}

// modelLoadingError is the endpoint's 503 while the model cold-starts.
type modelLoadingError struct {
	estimatedSeconds float64
}

func (e *modelLoadingError) Error() string {
	return fmt.Sprintf("model is loading (estimated %.0fs)", e.estimatedSeconds)
}

// Warmup probes the endpoint until the model is loaded or ctx expires.
func (a *HuggingFaceAnalyzer) Warmup(ctx context.Context) error {
	for {
		_, err := a.call(ctx, hfWarmupProbe)
		if err == nil {
			return nil
		}

		var loading *modelLoadingError
		if !errors.As(err, &loading) {
			return err
		}

		wait := time.Duration(loading.estimatedSeconds * float64(time.Second))
		if wait <= 0 || wait > hfMaxLoadingWait {
			wait = hfDefaultLoadWait
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (a *HuggingFaceAnalyzer) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	return a.call(ctx, text)
}

func (a *HuggingFaceAnalyzer) call(ctx context.Context, text string) (domain.Prediction, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return domain.Prediction{}, err
	}

	if !a.breaker.TryAcquirePermit() {
		return domain.Prediction{}, fmt.Errorf("huggingface call rejected: %w", circuitbreaker.ErrOpen)
	}

	pred, err := a.doRequest(ctx, text)
	if err != nil {
		var loading *modelLoadingError
		// Loading is expected during warm-up and must not trip the breaker.
		if errors.As(err, &loading) {
			a.breaker.RecordSuccess()
		} else {
			a.breaker.RecordError(err)
		}
		return domain.Prediction{}, err
	}

	a.breaker.RecordSuccess()
	return pred, nil
}

func (a *HuggingFaceAnalyzer) doRequest(ctx context.Context, text string) (domain.Prediction, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		var loading struct {
			Error         string  `json:"error"`
			EstimatedTime float64 `json:"estimated_time"`
		}
		if err := json.Unmarshal(raw, &loading); err == nil && loading.Error != "" {
			return domain.Prediction{}, &modelLoadingError{estimatedSeconds: loading.EstimatedTime}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Prediction{}, fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}

	return parseClassification(raw)
}

// parseClassification extracts the top-scoring label. The endpoint returns
// either [[{label, score}, ...]] or [{label, score}, ...].
func parseClassification(raw []byte) (domain.Prediction, error) {
	type scored struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	var nested [][]scored
	var flat []scored
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		flat = nested[0]
	} else if err := json.Unmarshal(raw, &flat); err != nil {
		return domain.Prediction{}, fmt.Errorf("unexpected classification response: %s", string(raw))
	}
	if len(flat) == 0 {
		return domain.Prediction{}, errors.New("empty classification response")
	}

	best := flat[0]
	for _, s := range flat[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return domain.Prediction{Label: best.Label, Score: best.Score}, nil
}
