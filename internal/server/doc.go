// Package server implements the HTTP server using Echo framework.
//
// Routes: health, version, metrics, sentiment analysis, mood history.
// Cross-cutting behavior (security headers, CORS, admission control, request
// logging, error classification) lives in middleware.go and errors are
// funneled through the centralized handler in server.go.
package server
