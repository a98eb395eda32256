package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultDialogLimit is used when a dialog listing does not specify a limit.
	DefaultDialogLimit = 20
	// DefaultMessageLimit is used when a history listing does not specify a limit.
	DefaultMessageLimit = 30
	// MaxListLimit caps dialog and history page sizes.
	MaxListLimit = 100

	// MaxMessageLen caps outgoing message text, in runes.
	MaxMessageLen = 4000
	// MaxRecipients caps a single broadcast.
	MaxRecipients = 100
)

// Profile is the signed-in account as returned by the protocol service.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Bot       bool   `json:"bot,omitempty"`
}

// DisplayName joins first and last names, falling back to the username.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

// DialogKind classifies a conversation thread.
type DialogKind string

const (
	DialogUser    DialogKind = "user"
	DialogGroup   DialogKind = "group"
	DialogChannel DialogKind = "channel"
)

// Dialog is a conversation thread summary.
type Dialog struct {
	ID          string     `json:"id"` // encoded PeerRef, usable as a chat id
	Kind        DialogKind `json:"kind"`
	Title       string     `json:"title"`
	Username    string     `json:"username,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
	LastAt      time.Time  `json:"last_at,omitzero"`
	Unread      int        `json:"unread"`
}

// Message is a single chat message.
type Message struct {
	ID       int       `json:"id"`
	ChatID   string    `json:"chat_id"`
	Text     string    `json:"text"`
	Outgoing bool      `json:"outgoing"`
	SenderID int64     `json:"sender_id,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

// Sender labels a message the way the chat view renders it.
func (m Message) Sender() string {
	if m.Outgoing {
		return "me"
	}
	return "them"
}

// DeliveryResult reports the outcome for one broadcast recipient.
type DeliveryResult struct {
	Username string   `json:"username"`
	Message  *Message `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ClampLimit bounds limit to [1, MaxListLimit], substituting def for non-positive values.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}

// TruncateText cuts text to at most MaxMessageLen runes.
func TruncateText(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxMessageLen])
}

// NormalizeRecipients trims usernames, drops blanks and caps the list at MaxRecipients.
func NormalizeRecipients(usernames []string) []string {
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, u)
		if len(out) == MaxRecipients {
			break
		}
	}
	return out
}
