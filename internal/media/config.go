package media

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Providers
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config selects and configures the image host
type Config struct {
	Provider string `env:"MEDIA_PROVIDER"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"agency"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	MaxWidth  int `env:"MEDIA_MAX_WIDTH" envDefault:"1920"`
	MaxSizeMB int `env:"MEDIA_MAX_SIZE_MB" envDefault:"10"`
}

// LoadConfig reads media settings from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, cfg.Validate()
}

// Validate checks that the selected provider has what it needs
func (c *Config) Validate() error {
	switch c.Provider {
	case "":
	case ProviderCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("MEDIA_PROVIDER=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case ProviderS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("MEDIA_PROVIDER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown MEDIA_PROVIDER %q", c.Provider)
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	return nil
}

// MaxSize is the upload limit in bytes
func (c *Config) MaxSize() int64 {
	return int64(c.MaxSizeMB) << 20
}
