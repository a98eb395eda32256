package metrics

import (
	"context"
	"time"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

// InstrumentFactory wraps f so every connection and call is timed.
// A nil recorder returns f unchanged.
func InstrumentFactory(f ports.ClientFactory, r *Recorder) ports.ClientFactory {
	if r == nil {
		return f
	}
	return &factory{inner: f, rec: r}
}

type factory struct {
	inner ports.ClientFactory
	rec   *Recorder
}

func (f *factory) Open(ctx context.Context, payload string) (ports.Client, error) {
	start := time.Now()
	c, err := f.inner.Open(ctx, payload)
	f.rec.ProtocolCall("connect", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &client{inner: c, rec: f.rec}, nil
}

type client struct {
	inner ports.Client
	rec   *Recorder
}

func (c *client) observe(op string, start time.Time, err error) {
	c.rec.ProtocolCall(op, time.Since(start), err)
}

func (c *client) SendCode(ctx context.Context, phone string) error {
	start := time.Now()
	err := c.inner.SendCode(ctx, phone)
	c.observe("send_code", start, err)
	return err
}

func (c *client) SignIn(ctx context.Context, phone, code string) error {
	start := time.Now()
	err := c.inner.SignIn(ctx, phone, code)
	c.observe("sign_in", start, err)
	return err
}

func (c *client) SignInPassword(ctx context.Context, password string) error {
	start := time.Now()
	err := c.inner.SignInPassword(ctx, password)
	c.observe("sign_in_password", start, err)
	return err
}

func (c *client) Authorized(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := c.inner.Authorized(ctx)
	c.observe("auth_status", start, err)
	return ok, err
}

// Payload is local serialization, not a call.
func (c *client) Payload(ctx context.Context) (string, error) {
	return c.inner.Payload(ctx)
}

func (c *client) Self(ctx context.Context) (model.Profile, error) {
	start := time.Now()
	p, err := c.inner.Self(ctx)
	c.observe("get_self", start, err)
	return p, err
}

func (c *client) Dialogs(ctx context.Context, limit int) ([]model.Dialog, error) {
	start := time.Now()
	d, err := c.inner.Dialogs(ctx, limit)
	c.observe("get_dialogs", start, err)
	return d, err
}

func (c *client) Messages(ctx context.Context, peer model.PeerRef, limit int) ([]model.Message, error) {
	start := time.Now()
	m, err := c.inner.Messages(ctx, peer, limit)
	c.observe("get_history", start, err)
	return m, err
}

func (c *client) Send(ctx context.Context, peer model.PeerRef, text string) (model.Message, error) {
	start := time.Now()
	m, err := c.inner.Send(ctx, peer, text)
	c.observe("send_message", start, err)
	return m, err
}

func (c *client) Close() error {
	return c.inner.Close()
}
