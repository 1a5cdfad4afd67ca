// Package cache holds the read-through cache used for public content lists.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is implemented by the in-memory and Redis backends.
// Values are raw bytes so both backends share one contract.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero ttl means the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// Error is the cache error type
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss is returned when a key is absent or expired
	ErrCacheMiss Error = "cache miss"
	// ErrCacheClosed is returned after Close
	ErrCacheClosed Error = "cache closed"
)

// GetJSON decodes a cached JSON value into dst
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON encodes value as JSON and stores it
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
