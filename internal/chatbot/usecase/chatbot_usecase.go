package usecase

import (
	"context"
	"errors"
	"strings"

	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/chatbot/domain/model"
	"agency-cms/internal/chatbot/domain/repository"
	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/metrics"
	"agency-cms/internal/shared/schema"
)

// ChatbotUsecase answers visitor questions from the site content
type ChatbotUsecase struct {
	completer repository.Completer
	builder   *ContextBuilder
	cfg       *config.Config
	metrics   *metrics.Metrics
	log       logger.Logger
}

// NewChatbotUsecase creates the use case; completer is nil when no API key is set
func NewChatbotUsecase(completer repository.Completer, builder *ContextBuilder, cfg *config.Config, m *metrics.Metrics, log logger.Logger) *ChatbotUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &ChatbotUsecase{
		completer: completer,
		builder:   builder,
		cfg:       cfg,
		metrics:   m,
		log:       log.WithComponent("chatbot"),
	}
}

// Status reports whether the chatbot can answer
func (u *ChatbotUsecase) Status() model.Status {
	return model.Status{Configured: u.configured(), Model: u.cfg.Model}
}

// Reply validates the visitor message and returns the assistant's answer
func (u *ChatbotUsecase) Reply(ctx context.Context, input map[string]interface{}) (string, error) {
	if raw, _ := input["message"].(string); strings.TrimSpace(raw) == "" {
		return "", apperrors.NewValidationError("Message is required")
	}
	sch, _ := schema.Get(schema.ChatbotMessage)
	clean, verrs := sch.Validate(input, false)
	if verrs != nil {
		return "", verrs.ToAppError()
	}
	message := strings.TrimSpace(clean["message"].(string))

	if !u.configured() {
		u.metrics.ChatbotOutcome("unconfigured")
		return "", apperrors.NewNotConfiguredError("Chatbot is not configured")
	}

	history, _ := clean["conversationHistory"].([]map[string]interface{})
	prompt := model.Prompt{
		System:  u.builder.Build(ctx),
		History: FilterHistory(history, u.cfg.HistoryTurns),
		Message: message,
	}

	callCtx := ctx
	if u.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, u.cfg.Timeout)
		defer cancel()
	}

	reply, err := u.completer.Complete(callCtx, prompt)
	switch {
	case errors.Is(err, apperrors.ErrRateLimited):
		u.log.Warnf("🤖 provider rate limited: %v", err)
		u.metrics.ChatbotOutcome("rate_limited")
		return "", apperrors.NewRateLimitedError("Too many requests, please try again in a moment")
	case err != nil:
		u.log.Errorf("🤖 completion failed: %v", err)
		u.metrics.ChatbotOutcome("error")
		return "", apperrors.NewInfrastructureError("Failed to get a response from the chatbot").WithCause(err)
	case reply == "":
		u.log.Errorf("🤖 empty completion from %s", u.completer.Model())
		u.metrics.ChatbotOutcome("empty")
		return "", apperrors.NewInfrastructureError("Chatbot returned an empty response")
	}

	u.metrics.ChatbotOutcome("ok")
	return reply, nil
}

func (u *ChatbotUsecase) configured() bool {
	return u.completer != nil && u.cfg.Configured()
}

// FilterHistory keeps user and assistant turns with content, at most the last turns entries
func FilterHistory(history []map[string]interface{}, turns int) []model.Message {
	out := make([]model.Message, 0, len(history))
	for _, h := range history {
		role, _ := h["role"].(string)
		content, _ := h["content"].(string)
		content = strings.TrimSpace(content)
		if content == "" || (role != model.RoleUser && role != model.RoleAssistant) {
			continue
		}
		out = append(out, model.Message{Role: role, Content: content})
	}
	if turns > 0 && len(out) > turns {
		out = out[len(out)-turns:]
	}
	return out
}
