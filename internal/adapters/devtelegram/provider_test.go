package devtelegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

var fixedNow = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

// phase drives one login phase the way the service does:
// each phase opens a new client from the previous payload.
func phase(t *testing.T, p *Provider, payload string, fn func(ports.Client) error) (string, error) {
	t.Helper()
	ctx := context.Background()
	c, err := p.Open(ctx, payload)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	phaseErr := fn(c)
	out, err := c.Payload(ctx)
	require.NoError(t, err)
	return out, phaseErr
}

func TestProvider_CodeLogin(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(Config{Now: fixedNow})

	payload, err := phase(t, p, "", func(c ports.Client) error { return c.SendCode(ctx, "+15550100") })
	require.NoError(t, err)

	_, err = phase(t, p, payload, func(c ports.Client) error { return c.SignIn(ctx, "+15550100", "00000") })
	require.ErrorIs(t, err, errCodeInvalid)

	payload, err = phase(t, p, payload, func(c ports.Client) error { return c.SignIn(ctx, "+15550100", DefaultCode) })
	require.NoError(t, err)

	_, err = phase(t, p, payload, func(c ports.Client) error {
		ok, err := c.Authorized(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		me, err := c.Self(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Dev User", me.DisplayName())
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, p.OpenConnections())
}

func TestProvider_TwoFactorLogin(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(Config{Code: "777", Password: "hunter2", Now: fixedNow})

	payload, err := phase(t, p, "", func(c ports.Client) error { return c.SendCode(ctx, "+15550100") })
	require.NoError(t, err)

	payload, err = phase(t, p, payload, func(c ports.Client) error { return c.SignIn(ctx, "+15550100", "777") })
	require.ErrorIs(t, err, ports.ErrPasswordRequired)

	_, err = phase(t, p, payload, func(c ports.Client) error { return c.SignInPassword(ctx, "wrong") })
	require.ErrorIs(t, err, errPasswordInvalid)

	payload, err = phase(t, p, payload, func(c ports.Client) error { return c.SignInPassword(ctx, "hunter2") })
	require.NoError(t, err)

	_, err = phase(t, p, payload, func(c ports.Client) error {
		ok, err := c.Authorized(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestProvider_RequiresAuthorization(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(Config{})

	c, err := p.Open(ctx, "")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Dialogs(ctx, 10)
	require.ErrorIs(t, err, errNotAuthorized)
	require.ErrorIs(t, c.SignIn(ctx, "+15550100", DefaultCode), errNoCodeRequested)
	require.ErrorIs(t, c.SendCode(ctx, "not-a-phone"), errPhoneInvalid)
}

func authorizedClient(t *testing.T, p *Provider) ports.Client {
	t.Helper()
	payload, err := encode(fakeState{Authorized: true})
	require.NoError(t, err)
	c, err := p.Open(context.Background(), payload)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestProvider_Chats(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(Config{Now: fixedNow})
	c := authorizedClient(t, p)

	dialogs, err := c.Dialogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, dialogs, 2)
	assert.Equal(t, "John Doe", dialogs[0].Title)
	assert.Equal(t, "user:1:1", dialogs[0].ID)

	ref, err := model.ParsePeerRef(dialogs[1].ID)
	require.NoError(t, err)
	msgs, err := c.Messages(ctx, ref, 30)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "I'm doing well too. Just working on some projects.", msgs[0].Text)

	sent, err := c.Send(ctx, model.PeerRef{Kind: model.PeerUsername, Username: "JaneSmith"}, "ping")
	require.NoError(t, err)
	assert.Equal(t, "user:2:2", sent.ChatID)
	assert.True(t, sent.Outgoing)
	assert.Equal(t, fixedNow(), sent.SentAt)

	msgs, err = c.Messages(ctx, ref, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ping", msgs[0].Text)
	assert.Len(t, p.Sent("user:2:2"), 1)

	_, err = c.Send(ctx, model.PeerRef{Kind: model.PeerUsername, Username: "nobody"}, "ping")
	require.ErrorIs(t, err, errUsernameUnknown)
}

func TestProvider_ClosedClient(t *testing.T) {
	p := NewProvider(Config{})
	c := authorizedClient(t, p)
	require.Equal(t, 1, p.OpenConnections())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Zero(t, p.OpenConnections())

	_, err := c.Self(context.Background())
	require.ErrorIs(t, err, errClosed)
}
