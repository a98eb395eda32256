package devtelegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

var errClosed = errors.New("connection closed")

type client struct {
	p  *Provider
	st fakeState

	closeOnce sync.Once
	closed    bool
}

func (c *client) SendCode(_ context.Context, phone string) error {
	if c.closed {
		return errClosed
	}
	digits := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if len(digits) < 5 || strings.Trim(digits, "0123456789") != "" {
		return errPhoneInvalid
	}
	c.st = fakeState{Phone: phone, CodeSent: true}
	return nil
}

func (c *client) SignIn(_ context.Context, _, code string) error {
	if c.closed {
		return errClosed
	}
	if !c.st.CodeSent {
		return errNoCodeRequested
	}
	if code != c.p.code {
		return errCodeInvalid
	}
	c.st.CodeSent = false
	if c.p.password != "" {
		c.st.Pending2FA = true
		return ports.ErrPasswordRequired
	}
	c.st.Authorized = true
	return nil
}

func (c *client) SignInPassword(_ context.Context, password string) error {
	if c.closed {
		return errClosed
	}
	if !c.st.Pending2FA || password != c.p.password {
		return errPasswordInvalid
	}
	c.st.Pending2FA = false
	c.st.Authorized = true
	return nil
}

func (c *client) Authorized(context.Context) (bool, error) {
	if c.closed {
		return false, errClosed
	}
	return c.st.Authorized, nil
}

func (c *client) Payload(context.Context) (string, error) {
	return encode(c.st)
}

func (c *client) Self(context.Context) (model.Profile, error) {
	if err := c.ready(); err != nil {
		return model.Profile{}, err
	}
	return c.p.profile, nil
}

func (c *client) Dialogs(_ context.Context, limit int) ([]model.Dialog, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.p.dialogs(limit), nil
}

func (c *client) Messages(_ context.Context, ref model.PeerRef, limit int) ([]model.Message, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	ct, err := c.p.lookup(ref)
	if err != nil {
		return nil, err
	}
	return c.p.messages(ct.ref.String(), limit), nil
}

func (c *client) Send(_ context.Context, ref model.PeerRef, text string) (model.Message, error) {
	if err := c.ready(); err != nil {
		return model.Message{}, err
	}
	ct, err := c.p.lookup(ref)
	if err != nil {
		return model.Message{}, err
	}
	return c.p.appendSent(ct.ref.String(), text), nil
}

func (c *client) ready() error {
	if c.closed {
		return errClosed
	}
	if !c.st.Authorized {
		return errNotAuthorized
	}
	return nil
}

func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.closed = true
		c.p.open.Add(-1)
	})
	return nil
}
