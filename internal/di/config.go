package di

import (
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
)

// ServerConfig holds the HTTP server and logging settings
type ServerConfig struct {
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Port        string `env:"PORT" envDefault:"5000"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"10"`

	// TrustedProxies lists the proxy IPs or CIDRs whose ProxyHeader is believed
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	ProxyHeader    string   `env:"PROXY_HEADER" envDefault:"X-Forwarded-For"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	Environment string `env:"ENVIRONMENT"`
}

// LoadServerConfig reads the server settings from the environment
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.Environment == "" {
		cfg.Environment = cfg.AppEnv
	}
	return cfg, nil
}

// DevMode reports whether error causes may be echoed to clients
func (c *ServerConfig) DevMode() bool {
	return c.AppEnv == "development"
}

// Addr is the listen address
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Origins returns CORS_ORIGIN in the comma separated form fiber's cors middleware expects
func (c *ServerConfig) Origins() string {
	parts := strings.Split(c.CORSOrigin, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

// ApplyProxy makes c.IP() read ProxyHeader only for requests arriving from a trusted proxy.
// With no trusted proxies the header is ignored and the socket address is used.
func (c *ServerConfig) ApplyProxy(fc *fiber.Config) {
	proxies := make([]string, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	if len(proxies) == 0 || c.ProxyHeader == "" {
		return
	}
	fc.ProxyHeader = c.ProxyHeader
	fc.EnableTrustedProxyCheck = true
	fc.TrustedProxies = proxies
	fc.EnableIPValidation = true
}
