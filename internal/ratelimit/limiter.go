package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/moodpulse/internal/metrics"
)

const sweepEvery = 5 * time.Minute

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// record tracks one client's usage within its current window.
// A record is expired once now >= resetAt and is replaced on the next check.
type record struct {
	count   int
	resetAt time.Time
}

// Limiter admits requests per client key within a fixed window.
type Limiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	window  time.Duration
	ceiling int
	records map[string]*record
	sweepAt time.Time
}

// NewLimiter creates a limiter allowing ceiling requests per window per client key.
func NewLimiter(window time.Duration, ceiling int, clock clockwork.Clock) *Limiter {
	return &Limiter{
		clock:   clock,
		window:  window,
		ceiling: ceiling,
		records: make(map[string]*record),
		sweepAt: clock.Now().Add(sweepEvery),
	}
}

// Admit checks whether a request from the given client key is allowed.
// Denied requests do not consume quota.
func (l *Limiter) Admit(clientKey string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	if now.After(l.sweepAt) || now.Equal(l.sweepAt) {
		l.sweep(now)
		l.sweepAt = now.Add(sweepEvery)
	}

	rec, ok := l.records[clientKey]
	if !ok || !now.Before(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(l.window)}
		l.records[clientKey] = rec
		metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()
		metrics.RateLimitTrackedClients.Set(float64(len(l.records)))
		return Decision{Allowed: true, Remaining: l.ceiling - 1, ResetAt: rec.resetAt}
	}

	if rec.count < l.ceiling {
		rec.count++
		metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()
		return Decision{Allowed: true, Remaining: l.ceiling - rec.count, ResetAt: rec.resetAt}
	}

	metrics.RateLimitDecisions.WithLabelValues("denied").Inc()
	return Decision{Allowed: false, Remaining: 0, ResetAt: rec.resetAt}
}

// Ceiling returns the configured per-window request ceiling.
func (l *Limiter) Ceiling() int {
	return l.ceiling
}

// TrackedClients returns the number of client records currently held.
func (l *Limiter) TrackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// sweep removes expired records. Must be called with mu held.
func (l *Limiter) sweep(now time.Time) {
	for key, rec := range l.records {
		if !now.Before(rec.resetAt) {
			delete(l.records, key)
		}
	}
	metrics.RateLimitTrackedClients.Set(float64(len(l.records)))
}
