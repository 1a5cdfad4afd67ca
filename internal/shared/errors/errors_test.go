package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_MessageAndCause(t *testing.T) {
	err := NewNotFoundError("Post")
	assert.Equal(t, "Post not found", err.Error())
	assert.Nil(t, err.Unwrap())

	cause := errors.New("connection reset")
	err = NewInfrastructureError("failed to load posts").WithCause(cause)
	assert.Equal(t, "failed to load posts: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNotConfigured_MatchesSentinel(t *testing.T) {
	err := NewNotConfiguredError("Chatbot is not configured")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestValidationErrors(t *testing.T) {
	ve := NewValidationErrors()
	assert.Nil(t, ve.ToAppError())
	assert.Equal(t, "validation failed", ve.Error())

	ve.Add("email", "email must be a valid email address", "nope").Add("name", "name is required", nil)
	require.True(t, ve.HasErrors())
	assert.Equal(t, "validation failed: email must be a valid email address", ve.Error())

	appErr := ve.ToAppError()
	require.NotNil(t, appErr)
	assert.True(t, IsValidation(appErr))
	assert.Equal(t, "validation failed", appErr.Message)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "name", appErr.Fields[1].Field)
}

func TestKindPredicates(t *testing.T) {
	nf := fmt.Errorf("wrapped: %w", NewNotFoundError("doc"))
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidation(nf))

	assert.True(t, IsAuthentication(NewAuthenticationError("Invalid credentials")))
	assert.True(t, IsConflict(NewConflictError("slug taken")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"authentication", NewAuthenticationError("no"), http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("no"), http.StatusForbidden},
		{"conflict", NewConflictError("taken"), http.StatusConflict},
		{"rate limited", NewRateLimitedError("slow down"), http.StatusTooManyRequests},
		{"rate limit sentinel", fmt.Errorf("groq: %w", ErrRateLimited), http.StatusTooManyRequests},
		{"infrastructure", NewInfrastructureError("db"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NewNotFoundError("post")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrapError_KeepsAppError(t *testing.T) {
	orig := NewAuthorizationError("inactive")
	assert.Same(t, orig, WrapError(fmt.Errorf("ctx: %w", orig), "ignored"))

	wrapped := WrapError(errors.New("db down"), "failed to save")
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.Equal(t, "failed to save: db down", wrapped.Error())
}
