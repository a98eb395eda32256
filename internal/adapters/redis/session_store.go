// Package redis provides Redis-based adapters for tgchat.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/tgchat/internal/domain/auth"
	"github.com/target/tgchat/internal/ports"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "tgchat:session:"

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a Redis-based session store.
// Expiring records map onto native key TTLs; records without expiry are stored without one.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultPrefix)
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) Put(ctx context.Context, token, payload string, ttl time.Duration) error {
	if token == "" {
		return errors.New("session token cannot be empty")
	}

	rec := domainauth.NewRecord(token, payload, ttl, time.Now())
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+token, data, max(ttl, 0)).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrSessionNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.Record
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return "", fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Key TTLs have millisecond granularity; the record's own expiry is authoritative.
	if !rec.Live(time.Now()) {
		return "", ports.ErrSessionNotFound
	}

	return rec.Payload, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
