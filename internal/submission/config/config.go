package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config tunes submission intake
type Config struct {
	// ResponseDelay is held before answering a public submission
	ResponseDelay       time.Duration `env:"SUBMISSION_RESPONSE_DELAY" envDefault:"200ms"`
	NotificationTimeout time.Duration `env:"SUBMISSION_NOTIFICATION_TIMEOUT" envDefault:"20s"`
	ConfirmationTimeout time.Duration `env:"SUBMISSION_CONFIRMATION_TIMEOUT" envDefault:"30s"`
	RateLimitMax        int           `env:"SUBMISSION_RATE_LIMIT" envDefault:"5"`
	RateLimitWindow     time.Duration `env:"SUBMISSION_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig reads submission settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
