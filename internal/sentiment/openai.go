package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pscheid92/moodpulse/internal/domain"
)

const classifyPrompt = `You are a sentiment classifier. ` +
	`Reply with a single JSON object {"label":"POSITIVE"|"NEGATIVE","score":<number between 0 and 1>} and nothing else.`

// OpenAIAnalyzer classifies text with a chat-completion prompt.
type OpenAIAnalyzer struct {
	client openai.Client
	model  openai.ChatModel
}

var _ domain.Analyzer = (*OpenAIAnalyzer)(nil)

func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

// Warmup verifies the configured model is reachable with the given key.
func (a *OpenAIAnalyzer) Warmup(ctx context.Context) error {
	if _, err := a.client.Models.Get(ctx, string(a.model)); err != nil {
		return fmt.Errorf("openai model check failed: %w", err)
	}
	return nil
}

func (a *OpenAIAnalyzer) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifyPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Prediction{}, errors.New("openai returned no choices")
	}

	var out struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return domain.Prediction{}, fmt.Errorf("unparseable classification %q: %w", content, err)
	}

	if out.Score < 0 {
		out.Score = 0
	}
	if out.Score > 1 {
		out.Score = 1
	}
	return domain.Prediction{Label: out.Label, Score: out.Score}, nil
}
