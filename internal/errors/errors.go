// Package errors provides structured error handling with context propagation and HTTP status code mapping.
package errors

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodpulse/internal/metrics"
)

// Kind represents the category of error for metrics and response formatting.
type Kind string

const (
	// KindValidation indicates invalid input (HTTP 400)
	KindValidation Kind = "validation"
	// KindRateLimited indicates the client exceeded its admission quota (HTTP 429)
	KindRateLimited Kind = "rate_limited"
	// KindUnavailable indicates the sentiment backend failed to initialize (HTTP 503)
	KindUnavailable Kind = "service_unavailable"
	// KindNotFound indicates resource not found (HTTP 404)
	KindNotFound Kind = "not_found"
	// KindInternal indicates server-side error (HTTP 500)
	KindInternal Kind = "internal"
)

// Error represents a structured error with kind, message, and context.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to expose to clients.
// Internal errors always report a generic message; the real detail stays in logs.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Message
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// RateLimitedError creates a new rate-limited error (HTTP 429).
func RateLimitedError(message string) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Message: message,
		Context: make(map[string]any),
	}
}

// UnavailableError creates a new service-unavailable error (HTTP 503).
func UnavailableError(message string, cause error) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleError writes the error response for an *Error, records metrics,
// and logs server-side detail for internal failures.
func HandleError(c echo.Context, err *Error) error {
	if err == nil {
		return nil
	}

	metrics.HTTPErrorsTotal.WithLabelValues(string(err.Kind)).Inc()

	if err.Kind == KindInternal || err.Kind == KindUnavailable {
		attrs := []any{
			"error", err.Error(),
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
		}
		for k, v := range err.Context {
			attrs = append(attrs, k, v)
		}
		slog.Error("Request failed", attrs...)
	}

	return c.JSON(err.HTTPStatus(), ErrorResponse{
		Error:     string(err.Kind),
		Message:   err.PublicMessage(),
		Timestamp: time.Now().UTC(),
	})
}

// WrapHTTPError converts an echo.HTTPError into a structured *Error.
// Unmatched routes and method mismatches surface here as 404/405.
func WrapHTTPError(httpErr *echo.HTTPError) *Error {
	message := "internal server error"
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	var e *Error
	switch httpErr.Code {
	case http.StatusBadRequest:
		e = ValidationError(message)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		e = NotFoundError("route not found")
	case http.StatusTooManyRequests:
		e = RateLimitedError(message)
	case http.StatusServiceUnavailable:
		e = UnavailableError(message, httpErr.Internal)
	default:
		e = InternalError(message, httpErr.Internal)
	}
	return e
}
