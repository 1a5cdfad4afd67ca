package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the chat provider settings and the static facts injected into the prompt
type Config struct {
	APIKey       string        `env:"GROQ_API_KEY"`
	BaseURL      string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model        string        `env:"GROQ_MODEL" envDefault:"llama-3.1-8b-instant"`
	MaxTokens    int64         `env:"CHATBOT_MAX_TOKENS" envDefault:"500"`
	Temperature  float64       `env:"CHATBOT_TEMPERATURE" envDefault:"0.7"`
	HistoryTurns int           `env:"CHATBOT_HISTORY_TURNS" envDefault:"10"`
	Timeout      time.Duration `env:"CHATBOT_TIMEOUT" envDefault:"30s"`

	RateLimitMax    int           `env:"CHATBOT_RATE_LIMIT" envDefault:"20"`
	RateLimitWindow time.Duration `env:"CHATBOT_RATE_WINDOW" envDefault:"1m"`

	SiteName       string `env:"SITE_NAME" envDefault:"Our Agency"`
	ContactEmail   string `env:"CONTACT_EMAIL"`
	ContactPhone   string `env:"CONTACT_PHONE"`
	ContactAddress string `env:"CONTACT_ADDRESS"`
}

// LoadConfig reads chatbot settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Configured reports whether an API key is set
func (c *Config) Configured() bool {
	return c.APIKey != ""
}
