package mail

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds SMTP and addressing settings
type Config struct {
	From     string        `env:"EMAIL_FROM"`
	To       string        `env:"EMAIL_TO"`
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	User     string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASS"`
	Secure   bool          `env:"SMTP_SECURE" envDefault:"false"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
	SiteName string        `env:"SITE_NAME" envDefault:"Our Agency"`
}

// LoadConfig reads mail settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.To == "" {
		cfg.To = cfg.From
	}
	return cfg, nil
}

// Enabled reports whether enough is set to talk to an SMTP server
func (c *Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}
