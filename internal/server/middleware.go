package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "github.com/pscheid92/moodpulse/internal/errors"
	"github.com/pscheid92/moodpulse/internal/metrics"
)

// Health and observability stay reachable for liveness probes even when a
// client exhausted its quota.
var rateLimitExemptPaths = map[string]struct{}{
	"/api/health":  {},
	"/api/version": {},
	"/metrics":     {},
}

func (s *Server) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, exempt := rateLimitExemptPaths[c.Request().URL.Path]; exempt {
			return next(c)
		}

		decision := s.gate.Admit(c.RealIP())

		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(s.gate.Ceiling()))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(decision.ResetAt.Sub(s.clock.Now()) / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			return apperrors.RateLimitedError("rate limit exceeded, retry later").
				WithField("client_key", c.RealIP())
		}

		return next(c)
	}
}

func requestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		// Run the error handler first so the logged status is the real one.
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("Request completed",
				"method", v.Method,
				"path", v.URI,
				"status", v.Status,
				"duration", v.Latency,
			)
			metrics.HTTPRequestsTotal.WithLabelValues(v.Method, c.Path(), strconv.Itoa(v.Status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(v.Method, c.Path()).Observe(v.Latency.Seconds())
			return nil
		},
	})
}
