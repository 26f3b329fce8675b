package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel = "gpt-4.1-mini"

	systemPrompt = "You summarize automotive industry news for an analyst digest. Reply with exactly three lines, each starting with \"• \"."
	userPrompt   = "Summarize this automotive article in 3 bullet points:\n%s"
)

// OpenAI summarizes through the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (s *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return EmptySummary, nil
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf(userPrompt, text)),
		},
		Model:       openai.ChatModel(s.model),
		MaxTokens:   openai.Int(300),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("openai returned empty summary")
	}
	return summary, nil
}
