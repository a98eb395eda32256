// Package devtelegram provides an in-process stand-in for the messaging
// service, used for local development and end-to-end tests.
package devtelegram

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

// DefaultCode is accepted by SignIn when Config.Code is empty.
const DefaultCode = "12345"

var (
	errNotAuthorized   = errors.New("AUTH_KEY_UNREGISTERED")
	errCodeInvalid     = errors.New("PHONE_CODE_INVALID")
	errPasswordInvalid = errors.New("PASSWORD_HASH_INVALID")
	errPhoneInvalid    = errors.New("PHONE_NUMBER_INVALID")
	errNoCodeRequested = errors.New("no code was requested for this session")
	errChatNotFound    = errors.New("PEER_ID_INVALID")
	errUsernameUnknown = errors.New("USERNAME_NOT_OCCUPIED")
)

// Config controls the dev provider behavior.
type Config struct {
	// Code is the login code every phone receives.
	Code string
	// Password enables the two-factor branch when set.
	Password string
	// Profile is returned by Self. Defaults to a "Dev User".
	Profile model.Profile
	// Now supplies message timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Provider implements ports.ClientFactory with canned dialogs.
// Sent messages are appended to the shared history so they show up on reload.
type Provider struct {
	code     string
	password string
	profile  model.Profile
	now      func() time.Time

	mu      sync.Mutex
	history map[string][]model.Message
	nextID  int

	open atomic.Int64
}

var _ ports.ClientFactory = (*Provider)(nil)

type contact struct {
	ref    model.PeerRef
	dialog model.Dialog
}

var contacts = []contact{
	{
		ref:    model.PeerRef{Kind: model.PeerUser, ID: 1, AccessHash: 1},
		dialog: model.Dialog{Kind: model.DialogUser, Title: "John Doe", Username: "johndoe", LastMessage: "Hey, how are you?", Unread: 2},
	},
	{
		ref:    model.PeerRef{Kind: model.PeerUser, ID: 2, AccessHash: 2},
		dialog: model.Dialog{Kind: model.DialogUser, Title: "Jane Smith", Username: "janesmith", LastMessage: "Can we meet tomorrow?"},
	},
	{
		ref:    model.PeerRef{Kind: model.PeerChannel, ID: 3, AccessHash: 3},
		dialog: model.Dialog{Kind: model.DialogChannel, Title: "Telegram News", Username: "telegram", LastMessage: "Latest updates from Telegram", Unread: 5},
	},
}

var seedConversation = []struct {
	text     string
	outgoing bool
}{
	{"Hey there!", false},
	{"Hey, how are you?", true},
	{"I'm good, thanks for asking. How about you?", false},
	{"I'm doing well too. Just working on some projects.", true},
}

// NewProvider constructs a dev provider from Config.
func NewProvider(cfg Config) *Provider {
	p := &Provider{
		code:     cfg.Code,
		password: cfg.Password,
		profile:  cfg.Profile,
		now:      cfg.Now,
		history:  make(map[string][]model.Message, len(contacts)),
	}
	if p.code == "" {
		p.code = DefaultCode
	}
	if p.profile.ID == 0 {
		p.profile = model.Profile{ID: 1000, FirstName: "Dev", LastName: "User", Username: "devuser", Phone: "15550100"}
	}
	if p.now == nil {
		p.now = time.Now
	}

	base := p.now().UTC().Add(-time.Hour)
	for _, c := range contacts {
		chatID := c.ref.String()
		msgs := make([]model.Message, 0, len(seedConversation))
		for i, s := range seedConversation {
			p.nextID++
			m := model.Message{
				ID:       p.nextID,
				ChatID:   chatID,
				Text:     s.text,
				Outgoing: s.outgoing,
				SentAt:   base.Add(time.Duration(i) * time.Minute),
			}
			if !s.outgoing {
				m.SenderID = c.ref.ID
			}
			msgs = append(msgs, m)
		}
		p.history[chatID] = msgs
	}
	return p
}

// OpenConnections reports clients opened and not yet closed.
func (p *Provider) OpenConnections() int { return int(p.open.Load()) }

// Open restores a fake session.
func (p *Provider) Open(ctx context.Context, payload string) (ports.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	st, err := decode(payload)
	if err != nil {
		return nil, err
	}
	p.open.Add(1)
	return &client{p: p, st: st}, nil
}

// Sent returns the messages sent to chatID during this process lifetime.
func (p *Provider) Sent(chatID string) []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.Message
	for _, m := range p.history[chatID] {
		if m.Outgoing && m.ID > len(contacts)*len(seedConversation) {
			out = append(out, m)
		}
	}
	return out
}

func (p *Provider) lookup(ref model.PeerRef) (contact, error) {
	for _, c := range contacts {
		switch {
		case ref.Kind == model.PeerUsername && strings.EqualFold(ref.Username, c.dialog.Username):
			return c, nil
		case ref.Kind == c.ref.Kind && ref.ID == c.ref.ID:
			return c, nil
		}
	}
	if ref.Kind == model.PeerUsername {
		return contact{}, errUsernameUnknown
	}
	return contact{}, errChatNotFound
}

func (p *Provider) dialogs(limit int) []model.Dialog {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Dialog, 0, len(contacts))
	for _, c := range contacts {
		if len(out) == limit {
			break
		}
		d := c.dialog
		d.ID = c.ref.String()
		if msgs := p.history[d.ID]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			d.LastMessage = last.Text
			d.LastAt = last.SentAt
		}
		out = append(out, d)
	}
	return out
}

// messages returns the newest limit messages, newest first like the real service.
func (p *Provider) messages(chatID string, limit int) []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.history[chatID]
	out := make([]model.Message, 0, min(limit, len(msgs)))
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out
}

func (p *Provider) appendSent(chatID, text string) model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	m := model.Message{ID: p.nextID, ChatID: chatID, Text: text, Outgoing: true, SentAt: p.now().UTC()}
	p.history[chatID] = append(p.history[chatID], m)
	return m
}

// fakeState is the dev payload: the login phase instead of an MTProto session.
type fakeState struct {
	Phone      string `json:"phone,omitempty"`
	CodeSent   bool   `json:"code_sent,omitempty"`
	Pending2FA bool   `json:"pending_2fa,omitempty"`
	Authorized bool   `json:"authorized,omitempty"`
}

func encode(st fakeState) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal dev session: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decode(payload string) (fakeState, error) {
	var st fakeState
	if payload == "" {
		return st, nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return st, fmt.Errorf("decode dev session: %w", err)
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("unmarshal dev session: %w", err)
	}
	return st, nil
}
