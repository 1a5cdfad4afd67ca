package repository

import (
	"context"

	"agency-cms/internal/chatbot/domain/model"
)

// Completer produces the assistant reply for a prompt.
// A provider rate limit is reported by wrapping errors.ErrRateLimited.
type Completer interface {
	Complete(ctx context.Context, prompt model.Prompt) (string, error)
	Model() string
}
