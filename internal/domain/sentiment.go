package domain

import "context"

// Label is the normalized polarity of a mood entry.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
)

// Prediction is the raw output of an inference backend, before normalization.
// Label casing and score precision are backend-specific.
type Prediction struct {
	Label string
	Score float64
}

// Analysis is the normalized sentiment result. Confidence is rounded to two
// decimal places and Text holds the trimmed input that was analyzed.
type Analysis struct {
	Label      Label
	Confidence float64
	Text       string
}

// Analyzer is the sentiment-inference collaborator. Implementations may need
// an expensive warm-up (model loading) before Predict can be called.
type Analyzer interface {
	// Warmup prepares the backend. Called once by the sentiment service;
	// safe to call again after a failure.
	Warmup(ctx context.Context) error

	// Predict classifies the given text. Only valid after a successful Warmup.
	Predict(ctx context.Context, text string) (Prediction, error)
}

// SentimentService classifies text, lazily initializing its backend.
type SentimentService interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
	Ready() bool
}
