// Package memory provides process-local adapters.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/tgchat/internal/domain/auth"
	"github.com/target/tgchat/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a mutex-guarded in-memory session store.
// Lapsed entries stay in the map until overwritten, deleted or swept; Get treats them as absent.
type SessionStore struct {
	mu      sync.RWMutex
	records map[string]domainauth.Record
	now     func() time.Time
}

// NewSessionStore creates an empty store using the wall clock.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock creates an empty store reading time from now.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		records: make(map[string]domainauth.Record),
		now:     now,
	}
}

func (s *SessionStore) Put(_ context.Context, token, payload string, ttl time.Duration) error {
	if token == "" {
		return errEmptyToken
	}
	rec := domainauth.NewRecord(token, payload, ttl, s.now())

	s.mu.Lock()
	s.records[token] = rec
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	rec, ok := s.records[token]
	s.mu.RUnlock()

	if !ok || !rec.Live(s.now()) {
		return "", ports.ErrSessionNotFound
	}
	return rec.Payload, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.records, token)
	s.mu.Unlock()
	return nil
}

// Sweep drops every entry that is no longer live at now and returns how many were removed.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, rec := range s.records {
		if !rec.Live(now) {
			delete(s.records, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, lapsed ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var errEmptyToken = errors.New("session token cannot be empty")
