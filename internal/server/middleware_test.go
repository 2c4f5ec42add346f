package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/ledger"
	"github.com/pscheid92/moodpulse/internal/ratelimit"
)

func newRateLimitedServer(t *testing.T, ceiling int) (*Server, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	cfg := testConfig()
	cfg.RateLimitMax = ceiling
	moods := ledger.New(cfg.MoodHistoryLimit, clock)
	gate := ratelimit.NewLimiter(cfg.RateLimitWindow(), ceiling, clock)
	return NewServer(cfg, &mockSentimentService{
		ready:    true,
		analysis: domain.Analysis{Label: domain.LabelPositive, Confidence: 0.9},
	}, moods, gate, clock), clock
}

func TestRateLimit_CeilingEnforced(t *testing.T) {
	srv, _ := newRateLimitedServer(t, 2)

	for i := 0; i < 2; i++ {
		rec := doJSON(srv, http.MethodGet, "/api/moods", "")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := doJSON(srv, http.MethodGet, "/api/moods", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"rate_limited"`)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_WindowElapses(t *testing.T) {
	srv, clock := newRateLimitedServer(t, 1)

	require.Equal(t, http.StatusOK, doJSON(srv, http.MethodGet, "/api/moods", "").Code)
	require.Equal(t, http.StatusTooManyRequests, doJSON(srv, http.MethodGet, "/api/moods", "").Code)

	clock.Advance(15 * time.Minute)

	assert.Equal(t, http.StatusOK, doJSON(srv, http.MethodGet, "/api/moods", "").Code)
}

func TestRateLimit_HealthIsExempt(t *testing.T) {
	srv, _ := newRateLimitedServer(t, 1)

	require.Equal(t, http.StatusOK, doJSON(srv, http.MethodGet, "/api/moods", "").Code)
	require.Equal(t, http.StatusTooManyRequests, doJSON(srv, http.MethodGet, "/api/moods", "").Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doJSON(srv, http.MethodGet, "/api/health", "").Code)
	}
}

func TestRateLimit_HeadersOnAllowedRequests(t *testing.T) {
	srv, _ := newRateLimitedServer(t, 10)

	rec := doJSON(srv, http.MethodGet, "/api/moods", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, &mockSentimentService{ready: true})

	rec := doJSON(srv, http.MethodGet, "/api/health", "")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &mockSentimentService{ready: true})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	srv := newTestServer(t, &mockSentimentService{ready: true})
	srv.echo.GET("/api/panic", func(c echo.Context) error { panic("boom") })

	rec := doJSON(srv, http.MethodGet, "/api/panic", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"internal"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}
