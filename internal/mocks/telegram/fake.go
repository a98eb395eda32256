// Package telegram contains hand-written test doubles for the protocol ports.
// They are lighter than gomock when a test only cares about a single failure.
package telegram

import (
	"context"
	"errors"
	"sync"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.ClientFactory = (*Factory)(nil)
	_ ports.Client        = (*Client)(nil)
)

// ErrInjected is the default failure returned by Fail* fields.
var ErrInjected = errors.New("injected failure")

// Factory hands out Client values and counts connections.
type Factory struct {
	// OpenErr fails every Open when set.
	OpenErr error
	// Client is the template copied into each opened connection.
	Client Client

	mu       sync.Mutex
	opened   int
	closed   int
	payloads []string
}

func (f *Factory) Open(_ context.Context, payload string) (ports.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	f.opened++
	c := &Client{
		SendCodeErr: f.Client.SendCodeErr,
		SignInErr:   f.Client.SignInErr,
		PasswordErr: f.Client.PasswordErr,
		CallErr:     f.Client.CallErr,
		Profile:     f.Client.Profile,
		DialogList:  f.Client.DialogList,
		History:     f.Client.History,
		payload:     payload,
		onClose:     f.markClosed,
	}
	return c, nil
}

func (f *Factory) markClosed() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

// Live reports connections opened and not yet closed.
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened - f.closed
}

// Payloads returns every payload passed to Open, in order.
func (f *Factory) Payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.payloads...)
}

// Client is a scripted connection. Its payload is the one it was opened with,
// suffixed with "+signed" after a successful sign-in.
type Client struct {
	SendCodeErr error
	SignInErr   error
	PasswordErr error
	// CallErr fails Self, Dialogs, Messages and Send.
	CallErr error

	Profile    model.Profile
	DialogList []model.Dialog
	History    []model.Message

	payload string
	onClose func()
	once    sync.Once
}

func (c *Client) SendCode(context.Context, string) error {
	if c.SendCodeErr != nil {
		return c.SendCodeErr
	}
	c.payload += "+code"
	return nil
}

func (c *Client) SignIn(context.Context, string, string) error {
	if c.SignInErr != nil {
		if errors.Is(c.SignInErr, ports.ErrPasswordRequired) {
			c.payload += "+2fa"
		}
		return c.SignInErr
	}
	c.payload += "+signed"
	return nil
}

func (c *Client) SignInPassword(context.Context, string) error {
	if c.PasswordErr != nil {
		return c.PasswordErr
	}
	c.payload += "+signed"
	return nil
}

func (c *Client) Authorized(context.Context) (bool, error) {
	if c.CallErr != nil {
		return false, c.CallErr
	}
	return c.payload != "", nil
}

func (c *Client) Payload(context.Context) (string, error) { return c.payload, nil }

func (c *Client) Self(context.Context) (model.Profile, error) {
	return c.Profile, c.CallErr
}

func (c *Client) Dialogs(_ context.Context, limit int) ([]model.Dialog, error) {
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	return c.DialogList[:min(limit, len(c.DialogList))], nil
}

func (c *Client) Messages(_ context.Context, _ model.PeerRef, limit int) ([]model.Message, error) {
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	return c.History[:min(limit, len(c.History))], nil
}

func (c *Client) Send(_ context.Context, peer model.PeerRef, text string) (model.Message, error) {
	if c.CallErr != nil {
		return model.Message{}, c.CallErr
	}
	return model.Message{ID: 1, ChatID: peer.String(), Text: text, Outgoing: true}, nil
}

func (c *Client) Close() error {
	c.once.Do(func() {
		if c.onClose != nil {
			c.onClose()
		}
	})
	return nil
}
