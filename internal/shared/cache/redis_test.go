package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisURL(t *testing.T) string {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, redisURL(t), "agency-test:", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "portfolio:list", []byte("x"), 0))
	got, err := c.Get(ctx, "portfolio:list")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	require.NoError(t, c.DeleteByPrefix(ctx, "portfolio:"))
	_, err = c.Get(ctx, "portfolio:list")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_EmptyURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "", "p:", time.Minute)
	assert.Error(t, err)
}
