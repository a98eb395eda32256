// Package telegram implements the protocol ports on top of gotd/td.
// Each Client is one MTProto connection whose session state round-trips
// through an opaque payload string.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/tg"

	"github.com/target/tgchat/internal/domain/model"
	"github.com/target/tgchat/internal/ports"
)

// testDC is the data center gotd's test list is dialed through.
const testDC = 2

var (
	_ ports.ClientFactory = (*Factory)(nil)
	_ ports.Client        = (*Client)(nil)
)

// FactoryOptions configures the MTProto factory.
type FactoryOptions struct {
	AppID   int
	AppHash string
	// TestDC connects to Telegram's test data centers.
	TestDC bool
	Logger *slog.Logger
}

// Factory opens gotd clients.
type Factory struct {
	appID   int
	appHash string
	testDC  bool
	logger  *slog.Logger
}

// NewFactory validates credentials and returns a Factory.
func NewFactory(opts FactoryOptions) (*Factory, error) {
	if opts.AppID <= 0 {
		return nil, errors.New("telegram: app id is required")
	}
	if opts.AppHash == "" {
		return nil, errors.New("telegram: app hash is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		appID:   opts.AppID,
		appHash: opts.AppHash,
		testDC:  opts.TestDC,
		logger:  logger.With("component", "telegram"),
	}, nil
}

// Open restores a session from payload and connects. It returns once the
// connection is ready or ctx is done.
func (f *Factory) Open(ctx context.Context, payload string) (ports.Client, error) {
	st, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	storage, err := restoreStorage(ctx, st.Session)
	if err != nil {
		return nil, err
	}
	opts := telegram.Options{SessionStorage: storage, NoUpdates: true}
	if f.testDC {
		opts.DC = testDC
		opts.DCList = dcs.Test()
	}
	tc := telegram.NewClient(f.appID, f.appHash, opts)

	// The connection outlives Open's ctx; Close cancels it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- tc.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		if err == nil {
			err = errors.New("connection closed before ready")
		}
		return nil, fmt.Errorf("connect: %w", err)
	case <-ctx.Done():
		cancel()
		<-done
		return nil, fmt.Errorf("connect: %w", ctx.Err())
	}

	f.logger.Debug("telegram connection ready", "has_session", len(st.Session) > 0)
	return &Client{
		tc:      tc,
		api:     tc.API(),
		storage: storage,
		state:   st,
		cancel:  cancel,
		done:    done,
		logger:  f.logger,
	}, nil
}

// Client is a live gotd connection.
type Client struct {
	tc      *telegram.Client
	api     *tg.Client
	storage *session.StorageMemory
	state   state
	logger  *slog.Logger

	cancel    context.CancelFunc
	done      chan error
	closeOnce sync.Once
	closeErr  error
}

// SendCode requests a login code and remembers the code hash for SignIn.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	sent, err := c.tc.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return fmt.Errorf("send code: unexpected response %T", sent)
	}
	c.state.Phone = phone
	c.state.CodeHash = code.PhoneCodeHash
	return nil
}

// SignIn submits the login code. ports.ErrPasswordRequired signals 2FA.
func (c *Client) SignIn(ctx context.Context, phone, code string) error {
	if c.state.CodeHash == "" {
		return errors.New("sign in: no code was requested for this session")
	}
	if phone == "" {
		phone = c.state.Phone
	}
	_, err := c.tc.Auth().SignIn(ctx, phone, code, c.state.CodeHash)
	switch {
	case err == nil:
		c.state.CodeHash = ""
		return nil
	case IsPasswordRequired(err):
		return ports.ErrPasswordRequired
	default:
		return fmt.Errorf("sign in: %w", err)
	}
}

// SignInPassword completes a login that requires the cloud password.
func (c *Client) SignInPassword(ctx context.Context, password string) error {
	if _, err := c.tc.Auth().Password(ctx, password); err != nil {
		return fmt.Errorf("password sign in: %w", err)
	}
	c.state.CodeHash = ""
	return nil
}

// Authorized asks the server whether the session is signed in.
func (c *Client) Authorized(ctx context.Context) (bool, error) {
	status, err := c.tc.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("auth status: %w", err)
	}
	return status.Authorized, nil
}

// Payload serializes the session together with any pending login state.
func (c *Client) Payload(context.Context) (string, error) {
	data, err := sessionBytes(c.storage)
	if err != nil {
		return "", err
	}
	st := c.state
	st.Session = data
	return encodePayload(st)
}

func (c *Client) Self(ctx context.Context) (model.Profile, error) {
	u, err := c.tc.Self(ctx)
	if err != nil {
		return model.Profile{}, fmt.Errorf("get self: %w", err)
	}
	return profileFromUser(u), nil
}

func (c *Client) Dialogs(ctx context.Context, limit int) ([]model.Dialog, error) {
	res, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get dialogs: %w", err)
	}
	switch d := res.(type) {
	case *tg.MessagesDialogs:
		return mapDialogs(d.Dialogs, d.Messages, d.Chats, d.Users), nil
	case *tg.MessagesDialogsSlice:
		return mapDialogs(d.Dialogs, d.Messages, d.Chats, d.Users), nil
	case *tg.MessagesDialogsNotModified:
		return []model.Dialog{}, nil
	default:
		return nil, fmt.Errorf("get dialogs: unexpected response %T", res)
	}
}

func (c *Client) Messages(ctx context.Context, ref model.PeerRef, limit int) ([]model.Message, error) {
	p, ref, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	res, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{Peer: p, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	chatID := ref.String()
	switch h := res.(type) {
	case *tg.MessagesMessages:
		return mapMessages(h.Messages, chatID), nil
	case *tg.MessagesMessagesSlice:
		return mapMessages(h.Messages, chatID), nil
	case *tg.MessagesChannelMessages:
		return mapMessages(h.Messages, chatID), nil
	case *tg.MessagesMessagesNotModified:
		return []model.Message{}, nil
	default:
		return nil, fmt.Errorf("get history: unexpected response %T", res)
	}
}

func (c *Client) Send(ctx context.Context, ref model.PeerRef, text string) (model.Message, error) {
	p, ref, err := c.resolve(ctx, ref)
	if err != nil {
		return model.Message{}, err
	}
	updates, err := message.NewSender(c.api).To(p).Text(ctx, text)
	if err != nil {
		return model.Message{}, fmt.Errorf("send message: %w", err)
	}
	id, sentAt := sentMessage(updates)
	return model.Message{
		ID:       id,
		ChatID:   ref.String(),
		Text:     text,
		Outgoing: true,
		SentAt:   sentAt,
	}, nil
}

// resolve turns ref into an input peer, looking usernames up on the server.
// The returned ref is the concrete peer so message chat ids stay stable.
func (c *Client) resolve(ctx context.Context, ref model.PeerRef) (tg.InputPeerClass, model.PeerRef, error) {
	if ref.Kind != model.PeerUsername {
		p, err := inputPeer(ref)
		return p, ref, err
	}
	p, err := peer.DefaultResolver(c.api).ResolveDomain(ctx, ref.Username)
	if err != nil {
		return nil, ref, fmt.Errorf("resolve @%s: %w", ref.Username, err)
	}
	if resolved, ok := refFromInputPeer(p); ok {
		ref = resolved
	}
	return p, ref, nil
}

// Close disconnects and waits for the connection goroutine to exit.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		err := <-c.done
		if err != nil && !errors.Is(err, context.Canceled) {
			c.closeErr = fmt.Errorf("close connection: %w", err)
		}
		c.logger.Debug("telegram connection closed")
	})
	return c.closeErr
}
