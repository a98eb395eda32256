package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/target/tgchat/internal/errors"
	"github.com/target/tgchat/internal/ports"
)

const connectFailedMsg = "failed to connect to Telegram"

// withClient opens one connection from payload, runs fn and always closes it.
// Close failures are logged; the connection is gone either way.
func withClient(ctx context.Context, clients ports.ClientFactory, logger *slog.Logger, payload string, fn func(ports.Client) error) error {
	c, err := clients.Open(ctx, payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeProtocol, connectFailedMsg)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			logger.WarnContext(ctx, "close protocol connection", "error", cerr)
		}
	}()
	return fn(c)
}

// generateToken returns a fresh session token.
func generateToken() string {
	return uuid.NewString()
}

// maskPhone keeps the country prefix and last two digits for logs.
func maskPhone(phone string) string {
	p := strings.TrimSpace(phone)
	if len(p) <= 4 {
		return strings.Repeat("*", len(p))
	}
	return p[:2] + strings.Repeat("*", len(p)-4) + p[len(p)-2:]
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
