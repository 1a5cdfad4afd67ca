package cache

import (
	"context"
	"time"

	"github.com/caarlos0/env/v6"

	"agency-cms/internal/shared/logger"
)

// Config selects and tunes the cache backend
type Config struct {
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Prefix   string        `env:"CACHE_PREFIX" envDefault:"agency:"`
}

// LoadConfig reads the cache settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New returns a Redis cache when REDIS_URL is set and reachable, the memory cache otherwise
func New(ctx context.Context, cfg *Config, log logger.Logger) Cache {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix, cfg.TTL)
		if err == nil {
			log.Infof("Using Redis cache (prefix %q, ttl %s)", cfg.Prefix, cfg.TTL)
			return rc
		}
		log.Warnf("Redis unavailable, falling back to memory cache: %v", err)
	}
	log.Infof("Using in-memory cache (ttl %s)", cfg.TTL)
	return NewMemoryCache(cfg.TTL)
}
