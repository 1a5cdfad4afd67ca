package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agency-cms/internal/chatbot/config"
	"agency-cms/internal/chatbot/domain/model"
	apperrors "agency-cms/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, got *recordedRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *config.Config {
	return &config.Config{APIKey: "test-key", BaseURL: url, Model: "llama-test", MaxTokens: 64, Temperature: 0.2}
}

func TestComplete_SendsConversation(t *testing.T) {
	var got recordedRequest
	srv := newServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "llama-test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  We build websites.  "}}]
	}`, &got)

	g := NewGroqCompleter(testConfig(srv.URL))
	reply, err := g.Complete(context.Background(), model.Prompt{
		System: "You are helpful",
		History: []model.Message{
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "hello"},
		},
		Message: "What do you do?",
	})
	require.NoError(t, err)
	assert.Equal(t, "We build websites.", reply)

	assert.Equal(t, "llama-test", got.Model)
	assert.EqualValues(t, 64, got.MaxTokens)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "What do you do?", got.Messages[3].Content)
}

func TestComplete_RateLimited(t *testing.T) {
	srv := newServer(t, http.StatusTooManyRequests, `{"error": {"message": "slow down", "type": "rate_limit"}}`, nil)

	_, err := NewGroqCompleter(testConfig(srv.URL)).Complete(context.Background(), model.Prompt{Message: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRateLimited))
}

func TestComplete_ServerError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error": {"message": "boom"}}`, nil)

	_, err := NewGroqCompleter(testConfig(srv.URL)).Complete(context.Background(), model.Prompt{Message: "hi"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrRateLimited))
}
