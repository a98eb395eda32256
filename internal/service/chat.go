package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/tgchat/internal/domain/model"
	apperrors "github.com/target/tgchat/internal/errors"
	"github.com/target/tgchat/internal/ports"
)

// ChatServiceOptions groups dependencies for ChatService.
type ChatServiceOptions struct {
	Clients  ports.ClientFactory // Required
	Sessions *SessionService     // Required
	Config   ChatConfig
}

// ChatConfig holds the optional knobs of ChatService.
type ChatConfig struct {
	// ServiceAccountPayload is a pre-authorized session used for read-only
	// profile and dialog requests that carry no session token. It is only
	// consulted when ServiceAccountFallback is true.
	ServiceAccountPayload  string
	ServiceAccountFallback bool
	Logger                 *slog.Logger
}

// ChatService runs the data actions on behalf of a signed-in session.
type ChatService struct {
	clients  ports.ClientFactory
	sessions *SessionService
	fallback string
	logger   *slog.Logger
}

// NewChatService constructs a new ChatService.
func NewChatService(opts ChatServiceOptions) *ChatService {
	if opts.Clients == nil {
		panic("ClientFactory is required")
	}
	if opts.Sessions == nil {
		panic("SessionService is required")
	}
	s := &ChatService{
		clients:  opts.Clients,
		sessions: opts.Sessions,
		logger:   loggerOrDefault(opts.Config.Logger).With("component", "chat"),
	}
	if opts.Config.ServiceAccountFallback {
		s.fallback = opts.Config.ServiceAccountPayload
	}
	return s
}

// GetProfile returns the signed-in account.
func (s *ChatService) GetProfile(ctx context.Context, token string) (model.Profile, error) {
	payload, err := s.payload(ctx, token, true)
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		var callErr error
		p, callErr = c.Self(ctx)
		return protocolErr(callErr, "failed to get user profile")
	})
	return p, err
}

// ListDialogs returns up to limit conversations, newest first.
func (s *ChatService) ListDialogs(ctx context.Context, token string, limit int) ([]model.Dialog, error) {
	payload, err := s.payload(ctx, token, true)
	if err != nil {
		return nil, err
	}
	limit = model.ClampLimit(limit, model.DefaultDialogLimit)

	var out []model.Dialog
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		var callErr error
		out, callErr = c.Dialogs(ctx, limit)
		return protocolErr(callErr, "failed to get dialogs")
	})
	return out, err
}

// ListMessages returns up to limit messages of chatID, newest first.
func (s *ChatService) ListMessages(ctx context.Context, token, chatID string, limit int) ([]model.Message, error) {
	ref, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	payload, err := s.payload(ctx, token, false)
	if err != nil {
		return nil, err
	}
	limit = model.ClampLimit(limit, model.DefaultMessageLimit)

	var out []model.Message
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		var callErr error
		out, callErr = c.Messages(ctx, ref, limit)
		return protocolErr(callErr, "failed to get messages")
	})
	return out, err
}

// SendMessage posts text to chatID.
func (s *ChatService) SendMessage(ctx context.Context, token, chatID, text string) (model.Message, error) {
	ref, err := parseChatID(chatID)
	if err != nil {
		return model.Message{}, err
	}
	text, err = messageText(text)
	if err != nil {
		return model.Message{}, err
	}
	payload, err := s.payload(ctx, token, false)
	if err != nil {
		return model.Message{}, err
	}

	var out model.Message
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		var callErr error
		out, callErr = c.Send(ctx, ref, text)
		return protocolErr(callErr, "failed to send message")
	})
	return out, err
}

// MessageUsers sends text to each username over one connection. Individual
// failures are reported in the result and do not fail the batch.
func (s *ChatService) MessageUsers(ctx context.Context, token, text string, usernames []string) ([]model.DeliveryResult, error) {
	text, err := messageText(text)
	if err != nil {
		return nil, err
	}
	recipients := model.NormalizeRecipients(usernames)
	if len(recipients) == 0 {
		return nil, apperrors.ValidationField("usernames", "no valid usernames provided")
	}
	payload, err := s.payload(ctx, token, false)
	if err != nil {
		return nil, err
	}

	results := make([]model.DeliveryResult, 0, len(recipients))
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		for _, name := range recipients {
			name = strings.TrimPrefix(name, "@")
			res := model.DeliveryResult{Username: name}
			msg, sendErr := c.Send(ctx, model.PeerRef{Kind: model.PeerUsername, Username: name}, text)
			if sendErr != nil {
				s.logger.WarnContext(ctx, "broadcast recipient failed", "username", name, "error", sendErr)
				res.Error = fmt.Sprintf("failed to send to %s", name)
			} else {
				res.Message = &msg
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// payload resolves token to its session payload. Read-only actions may fall
// back to the service account when no token was presented.
func (s *ChatService) payload(ctx context.Context, token string, readOnly bool) (string, error) {
	if token == "" {
		if readOnly && s.fallback != "" {
			return s.fallback, nil
		}
		return "", apperrors.NotAuthenticated("not authenticated")
	}
	payload, err := s.sessions.GetSessionPayload(ctx, token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return "", apperrors.NotAuthenticated("session not found")
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "load session")
	}
	return payload, nil
}

func parseChatID(chatID string) (model.PeerRef, error) {
	ref, err := model.ParsePeerRef(chatID)
	if err != nil {
		return model.PeerRef{}, apperrors.ValidationField("chat_id", err.Error())
	}
	return ref, nil
}

func messageText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ValidationField("text", "message text is required")
	}
	return model.TruncateText(text), nil
}

func protocolErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(err, apperrors.ErrCodeProtocol, msg)
}
