package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/tgchat/internal/ports"
)

func TestFactory_TracksConnections(t *testing.T) {
	ctx := context.Background()
	f := &Factory{}

	c, err := f.Open(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Live())

	require.NoError(t, c.SignIn(ctx, "+1", "1"))
	payload, err := c.Payload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p+signed", payload)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Zero(t, f.Live())
	assert.Equal(t, []string{"p"}, f.Payloads())
}

func TestClient_PasswordRequiredMarksPayload(t *testing.T) {
	ctx := context.Background()
	f := &Factory{Client: Client{SignInErr: ports.ErrPasswordRequired}}

	c, err := f.Open(ctx, "t")
	require.NoError(t, err)
	defer c.Close()

	require.ErrorIs(t, c.SignIn(ctx, "+1", "1"), ports.ErrPasswordRequired)
	payload, _ := c.Payload(ctx)
	assert.Equal(t, "t+2fa", payload)
}

func TestFactory_OpenErr(t *testing.T) {
	f := &Factory{OpenErr: ErrInjected}
	_, err := f.Open(context.Background(), "")
	require.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, f.Live())
}
