package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyLexicon(t *testing.T) *LexiconAnalyzer {
	t.Helper()
	a := NewLexiconAnalyzer()
	require.NoError(t, a.Warmup(context.Background()))
	return a
}

func TestLexicon_PredictBeforeWarmup(t *testing.T) {
	a := NewLexiconAnalyzer()
	_, err := a.Predict(context.Background(), "happy")
	assert.Error(t, err)
}

func TestLexicon_PositiveText(t *testing.T) {
	a := readyLexicon(t)

	pred, err := a.Predict(context.Background(), "I feel great, happy and grateful today!")
	require.NoError(t, err)

	assert.Equal(t, "POSITIVE", pred.Label)
	assert.Equal(t, 1.0, pred.Score)
}

func TestLexicon_NegativeText(t *testing.T) {
	a := readyLexicon(t)

	pred, err := a.Predict(context.Background(), "so tired, stressed and sad.")
	require.NoError(t, err)

	assert.Equal(t, "NEGATIVE", pred.Label)
	assert.Equal(t, 1.0, pred.Score)
}

func TestLexicon_MixedTextScoresLower(t *testing.T) {
	a := readyLexicon(t)

	pred, err := a.Predict(context.Background(), "happy but tired")
	require.NoError(t, err)

	assert.Equal(t, "POSITIVE", pred.Label, "ties lean positive")
	assert.Equal(t, 0.5, pred.Score)
}

func TestLexicon_NeutralText(t *testing.T) {
	a := readyLexicon(t)

	pred, err := a.Predict(context.Background(), "the meeting is at noon")
	require.NoError(t, err)

	assert.Equal(t, "POSITIVE", pred.Label)
	assert.Equal(t, 0.5, pred.Score)
}

func TestLexicon_PunctuationAndCase(t *testing.T) {
	a := readyLexicon(t)

	pred, err := a.Predict(context.Background(), "HAPPY!!!")
	require.NoError(t, err)

	assert.Equal(t, "POSITIVE", pred.Label)
	assert.Equal(t, 1.0, pred.Score)
}
