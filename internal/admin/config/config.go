package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the admin module.
type Config struct {
	// JWT Configuration
	JWTSecret    string `env:"JWT_SECRET,required"`
	JWTIssuer    string `env:"JWT_ISSUER" envDefault:"agency-cms"`
	JWTExpiresIn Expiry `env:"JWT_EXPIRES_IN" envDefault:"7d"`

	// Fallback admin, also seeded into the admins collection on startup
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Expiry is a token lifetime. Besides Go durations it accepts a day suffix ("7d")
// and a bare number of seconds, the formats JWT_EXPIRES_IN was historically set with.
type Expiry time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for env parsing
func (e *Expiry) UnmarshalText(text []byte) error {
	d, err := ParseExpiry(string(text))
	if err != nil {
		return err
	}
	*e = Expiry(d)
	return nil
}

// Duration returns the lifetime as a time.Duration
func (e Expiry) Duration() time.Duration {
	return time.Duration(e)
}

// ParseExpiry parses "7d", "12h", "30m" or "3600"
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, errors.New("empty expiry")
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		return time.Duration(days * float64(24*time.Hour)), nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid expiry %q", s)
	}
	return d, nil
}

// HasEnvAdmin reports whether the fallback admin pair is configured
func (c *Config) HasEnvAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load admin configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn.Duration() <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		c.BcryptCost = bcrypt.DefaultCost
	}
	return nil
}
