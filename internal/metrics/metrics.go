// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks requests by method, path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// HTTPErrorsTotal tracks error responses by error type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP error responses by error type",
		},
		[]string{"type"},
	)
)

// Rate Limiting Metrics
var (
	// RateLimitDecisions tracks admission decisions by outcome (allowed/denied)
	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_decisions_total",
			Help: "Rate limit admission decisions by outcome",
		},
		[]string{"outcome"},
	)

	// RateLimitTrackedClients tracks the number of client records currently held
	RateLimitTrackedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_tracked_clients",
			Help: "Number of client rate-limit records currently tracked",
		},
	)
)

// Sentiment Metrics
var (
	// SentimentRequestsTotal tracks inference calls by backend and status
	SentimentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_requests_total",
			Help: "Sentiment inference calls by backend and status",
		},
		[]string{"backend", "status"},
	)

	// SentimentWarmupsTotal tracks initialization attempts by status
	SentimentWarmupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_warmups_total",
			Help: "Sentiment backend initialization attempts by status",
		},
		[]string{"status"},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)
)

// Ledger Metrics
var (
	// LedgerEntries tracks the current number of stored mood entries
	LedgerEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mood_ledger_entries",
			Help: "Current number of mood entries in the ledger",
		},
	)
)
