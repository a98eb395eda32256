package config

import (
	"os"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieSecure sets the Secure attribute on the session cookie.
	// Defaults to true; dev mode turns it off unless set explicitly.
	CookieSecure bool `env:"HTTP_COOKIE_SECURE" envDefault:"true"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// AuthRateLimit is the sustained rate of login requests per second.
	AuthRateLimit float64 `env:"HTTP_AUTH_RATE_LIMIT" envDefault:"1"`
	// AuthRateBurst is the number of login requests allowed in a burst.
	AuthRateBurst int `env:"HTTP_AUTH_RATE_BURST" envDefault:"5"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.AuthRateLimit <= 0 {
		h.AuthRateLimit = 1
	}
	if h.AuthRateBurst < 1 {
		h.AuthRateBurst = 1
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

func (h *HTTPConfig) cookieSecureSet() bool {
	_, ok := os.LookupEnv("HTTP_COOKIE_SECURE")
	return ok
}
