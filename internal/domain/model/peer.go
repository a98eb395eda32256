package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PeerKind identifies which namespace a peer id belongs to.
type PeerKind string

const (
	PeerUser     PeerKind = "user"
	PeerChat     PeerKind = "chat"
	PeerChannel  PeerKind = "channel"
	PeerUsername PeerKind = "username"
)

// PeerRef addresses a conversation. Users and channels need the access hash
// handed out with the dialog listing; basic groups do not. Username refs are
// resolved by the protocol adapter.
type PeerRef struct {
	Kind       PeerKind
	ID         int64
	AccessHash int64
	Username   string
}

var errEmptyPeer = errors.New("chat id is required")

// String encodes the ref as "user:<id>:<hash>", "chat:<id>", "channel:<id>:<hash>" or "@name".
func (p PeerRef) String() string {
	switch p.Kind {
	case PeerUser, PeerChannel:
		return fmt.Sprintf("%s:%d:%d", p.Kind, p.ID, p.AccessHash)
	case PeerChat:
		return fmt.Sprintf("%s:%d", p.Kind, p.ID)
	case PeerUsername:
		return "@" + p.Username
	default:
		return ""
	}
}

// ParsePeerRef decodes a chat id produced by String. Any other token is taken
// as a username, with or without a leading "@".
func ParsePeerRef(raw string) (PeerRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PeerRef{}, errEmptyPeer
	}

	parts := strings.Split(raw, ":")
	kind := PeerKind(parts[0])
	switch kind {
	case PeerUser, PeerChannel:
		if len(parts) != 3 {
			return PeerRef{}, fmt.Errorf("chat id %q: want %s:<id>:<access_hash>", raw, kind)
		}
		id, err := parseID(parts[1])
		if err != nil {
			return PeerRef{}, fmt.Errorf("chat id %q: %w", raw, err)
		}
		hash, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return PeerRef{}, fmt.Errorf("chat id %q: access hash: %w", raw, err)
		}
		return PeerRef{Kind: kind, ID: id, AccessHash: hash}, nil
	case PeerChat:
		if len(parts) != 2 {
			return PeerRef{}, fmt.Errorf("chat id %q: want chat:<id>", raw)
		}
		id, err := parseID(parts[1])
		if err != nil {
			return PeerRef{}, fmt.Errorf("chat id %q: %w", raw, err)
		}
		return PeerRef{Kind: PeerChat, ID: id}, nil
	}

	name := strings.TrimPrefix(raw, "@")
	if name == "" || strings.ContainsAny(name, ": /") {
		return PeerRef{}, fmt.Errorf("chat id %q: not a peer reference or username", raw)
	}
	return PeerRef{Kind: PeerUsername, Username: name}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id: %w", err)
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}
