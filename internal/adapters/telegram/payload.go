package telegram

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gotd/td/session"
)

// state is everything a login needs to survive between requests.
// The MTProto session blob alone is not enough: SignIn also needs the
// phone_code_hash handed out by SendCode.
type state struct {
	Session  []byte `json:"session,omitempty"`
	Phone    string `json:"phone,omitempty"`
	CodeHash string `json:"phone_code_hash,omitempty"`
}

func encodePayload(st state) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal session state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// decodePayload restores state; the empty payload is a fresh session.
func decodePayload(payload string) (state, error) {
	var st state
	if payload == "" {
		return st, nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return st, fmt.Errorf("decode session payload: %w", err)
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("unmarshal session payload: %w", err)
	}
	return st, nil
}

// restoreStorage seeds the session.Storage handed to one gotd client.
// gotd writes auth keys and DC info into it while the connection runs.
func restoreStorage(ctx context.Context, data []byte) (*session.StorageMemory, error) {
	s := &session.StorageMemory{}
	if len(data) == 0 {
		return s, nil
	}
	if err := s.StoreSession(ctx, data); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return s, nil
}

// sessionBytes reads the storage back; nothing stored yet is an empty session.
func sessionBytes(s *session.StorageMemory) ([]byte, error) {
	data, err := s.Bytes(nil)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return data, nil
}
