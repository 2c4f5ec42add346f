package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pscheid92/moodpulse/internal/config"
	"github.com/pscheid92/moodpulse/internal/domain"
	apperrors "github.com/pscheid92/moodpulse/internal/errors"
	"github.com/pscheid92/moodpulse/internal/ledger"
	"github.com/pscheid92/moodpulse/internal/ratelimit"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	sentiment domain.SentimentService
	moods     *ledger.Ledger
	gate      *ratelimit.Limiter
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, svc domain.SentimentService, moods *ledger.Ledger, gate *ratelimit.Limiter, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:      e,
		config:    cfg,
		sentiment: svc,
		moods:     moods,
		gate:      gate,
		clock:     clock,
		startTime: clock.Now(),
	}

	e.HTTPErrorHandler = srv.handleHTTPError

	// Middleware, outermost first: the request logger wraps everything so
	// denied and failed requests are recorded too, panics become 500s,
	// then headers, then admission control.
	e.Use(requestLoggerMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(srv.rateLimitMiddleware)

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHTTPError converts any error escaping a handler into exactly one
// ApiError response. Unmatched routes and panics land here too.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			appErr = apperrors.WrapHTTPError(httpErr)
		} else {
			appErr = apperrors.InternalError("unhandled error", err)
		}
	}

	if writeErr := apperrors.HandleError(c, appErr); writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}
