package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/chatbot/domain/model"
	"agency-cms/internal/chatbot/domain/repository"
	apperrors "agency-cms/internal/shared/errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GroqCompleter talks to an OpenAI compatible chat completions endpoint
type GroqCompleter struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

var _ repository.Completer = (*GroqCompleter)(nil)

// NewGroqCompleter builds the client once at startup; requests are not retried
func NewGroqCompleter(cfg *config.Config, opts ...option.RequestOption) *GroqCompleter {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	return &GroqCompleter{
		client:      openai.NewClient(append(base, opts...)...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Model returns the configured model name
func (g *GroqCompleter) Model() string {
	return g.model
}

// Complete sends the system prompt, the history and the new message and returns the first choice
func (g *GroqCompleter) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.History)+2)
	messages = append(messages, openai.SystemMessage(prompt.System))
	for _, m := range prompt.History {
		switch m.Role {
		case model.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(prompt.Message))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		params.MaxTokens = openai.Int(g.maxTokens)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", apperrors.ErrRateLimited, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
