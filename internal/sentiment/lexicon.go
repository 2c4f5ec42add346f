package sentiment

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/pscheid92/moodpulse/internal/domain"
)

var positiveWords = []string{
	"amazing", "awesome", "better", "brilliant", "calm", "cheerful", "content",
	"delighted", "energetic", "excellent", "excited", "fantastic", "glad",
	"good", "grateful", "great", "happy", "hopeful", "joy", "joyful", "love",
	"loved", "lovely", "motivated", "optimistic", "peaceful", "perfect",
	"pleased", "positive", "proud", "refreshed", "relaxed", "relieved",
	"satisfied", "strong", "thankful", "thrilled", "upbeat", "wonderful",
}

var negativeWords = []string{
	"afraid", "angry", "annoyed", "anxious", "awful", "bad", "bored", "broken",
	"depressed", "disappointed", "down", "drained", "dreadful", "empty",
	"exhausted", "frustrated", "gloomy", "hate", "hopeless", "horrible",
	"hurt", "lonely", "lost", "low", "mad", "miserable", "nervous", "numb",
	"overwhelmed", "sad", "scared", "sick", "stressed", "terrible", "tired",
	"unhappy", "upset", "worried", "worse", "worthless",
}

// LexiconAnalyzer scores text against in-process word lists. It is the
// default backend: deterministic, dependency-free, instant warm-up.
type LexiconAnalyzer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var _ domain.Analyzer = (*LexiconAnalyzer)(nil)

func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

// Warmup builds the lookup index.
func (a *LexiconAnalyzer) Warmup(_ context.Context) error {
	positive := make(map[string]struct{}, len(positiveWords))
	for _, w := range positiveWords {
		positive[w] = struct{}{}
	}
	negative := make(map[string]struct{}, len(negativeWords))
	for _, w := range negativeWords {
		negative[w] = struct{}{}
	}
	a.positive = positive
	a.negative = negative
	return nil
}

// Predict counts polarity hits per token. Ties and neutral text lean positive
// with minimum confidence.
func (a *LexiconAnalyzer) Predict(_ context.Context, text string) (domain.Prediction, error) {
	if a.positive == nil {
		return domain.Prediction{}, errors.New("lexicon index not loaded")
	}

	pos, neg := 0, 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:'\"()-")
		if _, ok := a.positive[token]; ok {
			pos++
		}
		if _, ok := a.negative[token]; ok {
			neg++
		}
	}

	label := "NEGATIVE"
	if pos >= neg {
		label = "POSITIVE"
	}

	score := 0.5
	if pos+neg > 0 {
		score = 0.5 + 0.5*math.Abs(float64(pos-neg))/float64(pos+neg)
	}

	return domain.Prediction{Label: label, Score: score}, nil
}
