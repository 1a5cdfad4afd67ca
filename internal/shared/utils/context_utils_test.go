package utils

import (
	"context"
	"testing"

	"agency-cms/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminFromContext(t *testing.T) {
	ctx := WithAdmin(context.Background(), "admin1", "admin@agency.io", "Owner")

	admin, ok := AdminFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, Admin{ID: "admin1", Email: "admin@agency.io", Name: "Owner"}, admin)
}

func TestAdminFromContext_Missing(t *testing.T) {
	_, ok := AdminFromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), contextkeys.AdminIDKey, 42)
	_, ok = AdminFromContext(ctx)
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "req-1", RequestID(WithRequestID(context.Background(), "req-1")))
}
