// Package ports defines interfaces (hexagonal ports) for session and protocol behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by session stores for absent and lapsed tokens alike.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps opaque session payloads keyed by token.
type SessionStore interface {
	// Put stores payload under token, replacing any existing entry.
	// A positive ttl sets an absolute expiry of now+ttl; zero means no expiry.
	Put(ctx context.Context, token, payload string, ttl time.Duration) error
	// Get returns the payload, or ErrSessionNotFound when absent or expired.
	Get(ctx context.Context, token string) (string, error)
	// Delete removes the entry; deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
