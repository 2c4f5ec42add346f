package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (exempt from rate limiting)
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Sentiment analysis (stateless, nothing persisted)
	s.echo.POST("/api/sentiment", s.handleAnalyzeSentiment)

	// Mood history
	s.echo.POST("/api/moods", s.handleCreateMood)
	s.echo.GET("/api/moods", s.handleListMoods)
}
