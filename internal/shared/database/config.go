package database

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds MongoDB connection settings
type Config struct {
	URI            string        `env:"MONGODB_URI,required"`
	Name           string        `env:"MONGODB_DB_NAME" envDefault:"agency_site"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"20"`
	MinPoolSize    uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"2"`
}

// LoadConfig reads database settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
