package config

import (
	"errors"
	"fmt"
	"strings"
)

// TelegramMode selects the protocol client implementation.
type TelegramMode string

const (
	// TelegramModeMTProto talks to Telegram through gotd/td.
	TelegramModeMTProto TelegramMode = "mtproto"
	// TelegramModeMock uses the in-process dev provider (for development only).
	TelegramModeMock TelegramMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for TelegramMode.
func (m *TelegramMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "mtproto", "mock":
		*m = TelegramMode(v)
		return nil
	default:
		return fmt.Errorf("invalid TelegramMode: %q (valid options: mtproto, mock)", v)
	}
}

// MockTelegramConfig controls the dev provider used when Mode=mock.
type MockTelegramConfig struct {
	Code     string `env:"CODE"     envDefault:"12345"`
	Password string `env:"PASSWORD" envDefault:""`
}

// TelegramConfig groups messaging protocol configuration.
type TelegramConfig struct {
	Mode TelegramMode `env:"TELEGRAM_MODE" envDefault:"mtproto"`

	// AppID and AppHash are the API credentials from my.telegram.org.
	AppID   int    `env:"TELEGRAM_APP_ID"`
	AppHash string `env:"TELEGRAM_APP_HASH"`

	// TestDC connects to Telegram's test data centers.
	TestDC bool `env:"TELEGRAM_TEST_DC" envDefault:"false"`

	// SessionString is a pre-authorized service account payload.
	SessionString string `env:"TELEGRAM_SESSION_STRING"`
	// ServiceAccountFallback lets profile and dialog requests without a
	// session cookie use SessionString.
	ServiceAccountFallback bool `env:"TELEGRAM_SERVICE_ACCOUNT_FALLBACK" envDefault:"false"`

	Mock MockTelegramConfig `envPrefix:"TELEGRAM_MOCK_"`
}

// Sanitize normalises protocol configuration values.
func (c *TelegramConfig) Sanitize() {
	if c.Mode == "" {
		c.Mode = TelegramModeMTProto
	}
	c.AppHash = strings.TrimSpace(c.AppHash)
	c.SessionString = strings.TrimSpace(c.SessionString)
	if c.SessionString == "" {
		c.ServiceAccountFallback = false
	}
}

// Validate reports missing credentials for the selected mode.
func (c *TelegramConfig) Validate() error {
	if c.Mode != TelegramModeMTProto {
		return nil
	}
	var errs []error
	if c.AppID <= 0 {
		errs = append(errs, errors.New("TELEGRAM_APP_ID is required when TELEGRAM_MODE=mtproto"))
	}
	if c.AppHash == "" {
		errs = append(errs, errors.New("TELEGRAM_APP_HASH is required when TELEGRAM_MODE=mtproto"))
	}
	return errors.Join(errs...)
}
