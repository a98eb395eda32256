package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/target/tgchat/internal/ports"
)

// SessionService is the thin accessor the orchestrators use to reach the store.
type SessionService struct {
	store ports.SessionStore
}

// NewSessionService wraps store.
func NewSessionService(store ports.SessionStore) *SessionService {
	if store == nil {
		panic("SessionStore is required")
	}
	return &SessionService{store: store}
}

// SetSessionPayload stores payload under token. A zero ttl never expires.
func (s *SessionService) SetSessionPayload(ctx context.Context, token, payload string, ttl time.Duration) error {
	if token == "" {
		return errors.New("session token is required")
	}
	if err := s.store.Put(ctx, token, payload, ttl); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSessionPayload returns the payload or an error wrapping ports.ErrSessionNotFound.
func (s *SessionService) GetSessionPayload(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ports.ErrSessionNotFound
	}
	payload, err := s.store.Get(ctx, token)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return payload, nil
}

// DeleteSession removes token. Unknown tokens are not an error.
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
