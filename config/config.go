package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server and cookie configuration
//   - session.go: Session store and Redis configuration
//   - telegram.go: Messaging protocol configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Session  SessionConfig
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Telegram TelegramConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Telegram.Sanitize()
	c.Observability.Sanitize()

	// Local dev runs over plain http.
	if c.IsDev && !c.HTTP.cookieSecureSet() {
		c.HTTP.CookieSecure = false
	}
}

// Validate reports configuration that cannot start the service.
func (c *AppConfig) Validate() error {
	return errors.Join(c.Telegram.Validate(), c.Session.Validate())
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
