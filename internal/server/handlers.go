package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodpulse/internal/domain"
	apperrors "github.com/pscheid92/moodpulse/internal/errors"
	"github.com/pscheid92/moodpulse/internal/ledger"
	"github.com/pscheid92/moodpulse/internal/version"
)

type textRequest struct {
	// Pointer distinguishes a missing field from an empty string.
	Text *string `json:"text"`
}

type sentimentResponse struct {
	Sentiment  domain.Label `json:"sentiment"`
	Confidence float64      `json:"confidence"`
	Text       string       `json:"text"`
}

type moodListResponse struct {
	Moods  []domain.MoodEntry `json:"moods"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func (s *Server) handleHealth(c echo.Context) error {
	sentimentStatus := "initializing"
	if s.sentiment.Ready() {
		sentimentStatus = "ready"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.clock.Now().UTC(),
		"uptime":    s.clock.Now().Sub(s.startTime).Seconds(),
		"services": map[string]string{
			"sentimentAnalysis": sentimentStatus,
		},
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}

func (s *Server) handleAnalyzeSentiment(c echo.Context) error {
	text, err := s.bindText(c)
	if err != nil {
		return err
	}

	analysis, err := s.analyze(c, text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sentimentResponse{
		Sentiment:  analysis.Label,
		Confidence: analysis.Confidence,
		Text:       analysis.Text,
	})
}

func (s *Server) handleCreateMood(c echo.Context) error {
	text, err := s.bindText(c)
	if err != nil {
		return err
	}

	analysis, err := s.analyze(c, text)
	if err != nil {
		return err
	}

	// The client may have gone away while inference ran; never persist
	// an entry whose response cannot be delivered.
	if ctxErr := c.Request().Context().Err(); ctxErr != nil {
		return apperrors.InternalError("client disconnected before persistence", ctxErr)
	}

	entry := s.moods.Append(analysis)
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleListMoods(c echo.Context) error {
	limit := queryInt(c, "limit", ledger.DefaultLimit)
	offset := queryInt(c, "offset", ledger.DefaultOffset)

	page := s.moods.Page(limit, offset)

	return c.JSON(http.StatusOK, moodListResponse{
		Moods:  page.Items,
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
	})
}

// bindText extracts and validates the text field of a submission body.
func (s *Server) bindText(c echo.Context) (string, error) {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return "", apperrors.ValidationError("request body must be a JSON object with a string text field")
	}
	if req.Text == nil {
		return "", apperrors.ValidationError("text is required and must be a string")
	}
	if err := domain.ValidateEntryText(*req.Text); err != nil {
		return "", apperrors.ValidationError(err.Error())
	}
	return *req.Text, nil
}

// analyze runs sentiment inference and classifies failures: initialization
// trouble is retryable (503), anything after readiness is internal (500).
func (s *Server) analyze(c echo.Context, text string) (domain.Analysis, error) {
	analysis, err := s.sentiment.Analyze(c.Request().Context(), text)
	if err != nil {
		if errors.Is(err, domain.ErrAnalyzerUnavailable) {
			return domain.Analysis{}, apperrors.UnavailableError("sentiment analysis is warming up, please retry later", err)
		}
		return domain.Analysis{}, apperrors.InternalError("sentiment analysis failed", err).
			WithField("text_length", len(text))
	}
	return analysis, nil
}

// queryInt parses a numeric query parameter. Missing, malformed, or negative
// values fall back to the default rather than erroring.
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
