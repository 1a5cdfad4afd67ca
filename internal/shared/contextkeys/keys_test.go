package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	assert.Equal(t, "agency-cms context key requestID", RequestIDKey.String())
}

func TestContextKeys_DoNotCollideWithStrings(t *testing.T) {
	ctx := context.WithValue(context.Background(), "adminID", "plain-string-key")
	ctx = context.WithValue(ctx, AdminIDKey, "admin-123")

	assert.Equal(t, "admin-123", ctx.Value(AdminIDKey))
	assert.Equal(t, "plain-string-key", ctx.Value("adminID"))
	assert.Nil(t, ctx.Value(AdminEmailKey))
}
