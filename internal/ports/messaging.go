package ports

import (
	"context"
	"errors"

	"github.com/target/tgchat/internal/domain/model"
)

// ErrPasswordRequired is returned by Client.SignIn when the account has a
// cloud password and the login must continue with SignInPassword.
var ErrPasswordRequired = errors.New("two-factor password required")

// ClientFactory opens connections to the messaging protocol service.
type ClientFactory interface {
	// Open connects a client restored from payload. An empty payload yields an
	// unauthenticated client. Callers must Close the client.
	Open(ctx context.Context, payload string) (Client, error)
}

// Client is one live protocol connection. It is not safe for concurrent use
// and is never kept across requests.
type Client interface {
	SendCode(ctx context.Context, phone string) error
	SignIn(ctx context.Context, phone, code string) error
	SignInPassword(ctx context.Context, password string) error
	Authorized(ctx context.Context) (bool, error)

	// Payload serializes the client's current session state.
	Payload(ctx context.Context) (string, error)

	Self(ctx context.Context) (model.Profile, error)
	Dialogs(ctx context.Context, limit int) ([]model.Dialog, error)
	Messages(ctx context.Context, peer model.PeerRef, limit int) ([]model.Message, error)
	Send(ctx context.Context, peer model.PeerRef, text string) (model.Message, error)

	Close() error
}
