package telegram

import (
	"errors"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tgerr"
)

const passwordNeededType = "SESSION_PASSWORD_NEEDED"

// IsPasswordRequired reports whether err means the account has a cloud
// password. It prefers gotd's typed errors and only falls back to matching
// the RPC error type in the message text.
func IsPasswordRequired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, auth.ErrPasswordAuthNeeded) || tgerr.Is(err, passwordNeededType) {
		return true
	}
	return strings.Contains(strings.ToUpper(err.Error()), passwordNeededType)
}
