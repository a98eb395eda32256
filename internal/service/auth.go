package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/target/tgchat/internal/domain/auth"
	apperrors "github.com/target/tgchat/internal/errors"
	"github.com/target/tgchat/internal/observability/metrics"
	"github.com/target/tgchat/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Clients  ports.ClientFactory // Required
	Sessions *SessionService     // Required
	Config   AuthConfig
}

// AuthConfig holds the optional knobs of AuthService.
type AuthConfig struct {
	// TempTTL bounds an in-progress login; defaults to domainauth.DefaultTempTTL.
	TempTTL time.Duration
	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

// AuthService runs the phone, code and password login phases. Every phase opens
// its own protocol connection; state crosses phases only through the session store.
type AuthService struct {
	clients  ports.ClientFactory
	sessions *SessionService
	tempTTL  time.Duration
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

const expiredTokenMsg = "invalid or expired token"

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Clients == nil {
		panic("ClientFactory is required")
	}
	if opts.Sessions == nil {
		panic("SessionService is required")
	}
	ttl := opts.Config.TempTTL
	if ttl <= 0 {
		ttl = domainauth.DefaultTempTTL
	}
	return &AuthService{
		clients:  opts.Clients,
		sessions: opts.Sessions,
		tempTTL:  ttl,
		metrics:  opts.Config.Metrics,
		logger:   loggerOrDefault(opts.Config.Logger).With("component", "auth"),
	}
}

// StartLoginResult carries the token that resumes the login in the next phase.
type StartLoginResult struct {
	TempToken string
}

// StartLogin asks the service to send a login code to phone.
func (s *AuthService) StartLogin(ctx context.Context, phone string) (res *StartLoginResult, err error) {
	defer func() { s.metrics.AuthPhase(metrics.PhaseStartLogin, err) }()

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.ValidationField("phone", "phone number is required")
	}

	var payload string
	err = withClient(ctx, s.clients, s.logger, "", func(c ports.Client) error {
		if sendErr := c.SendCode(ctx, phone); sendErr != nil {
			return apperrors.Wrap(sendErr, apperrors.ErrCodeSendCode, "failed to send code")
		}
		var payloadErr error
		payload, payloadErr = c.Payload(ctx)
		if payloadErr != nil {
			return apperrors.Wrap(payloadErr, apperrors.ErrCodeInternal, "serialize session")
		}
		return nil
	})
	if err != nil {
		s.logger.InfoContext(ctx, "send code failed", "phone", maskPhone(phone), "error", err)
		return nil, err
	}

	token := generateToken()
	if err = s.sessions.SetSessionPayload(ctx, token, payload, s.tempTTL); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "store login session")
	}

	s.logger.InfoContext(ctx, "login code sent", "phone", maskPhone(phone))
	return &StartLoginResult{TempToken: token}, nil
}

// VerifyCodeInput groups the code phase parameters.
type VerifyCodeInput struct {
	TempToken string
	Phone     string
	Code      string
}

// LoginResult is the outcome of the code or password phase. Exactly one of
// SessionToken or NeedsTwoFactor is set.
type LoginResult struct {
	// SessionToken is the new persistent token to bind to the cookie.
	SessionToken string
	// NeedsTwoFactor means the password phase must follow using TempToken.
	NeedsTwoFactor bool
	TempToken      string
}

// VerifyCode signs in with the code sent by StartLogin. A wrong code leaves
// the temp token usable for another attempt.
func (s *AuthService) VerifyCode(ctx context.Context, in VerifyCodeInput) (res *LoginResult, err error) {
	defer func() {
		if res != nil && res.NeedsTwoFactor {
			s.metrics.AuthPhase(metrics.PhaseVerifyCode, ports.ErrPasswordRequired)
			return
		}
		s.metrics.AuthPhase(metrics.PhaseVerifyCode, err)
	}()

	payload, err := s.loadTemp(ctx, in.TempToken)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, apperrors.ValidationField("code", "code is required")
	}

	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		signErr := c.SignIn(ctx, strings.TrimSpace(in.Phone), code)
		switch {
		case errors.Is(signErr, ports.ErrPasswordRequired):
			if saveErr := s.resaveTemp(ctx, c, in.TempToken); saveErr != nil {
				return saveErr
			}
			res = &LoginResult{NeedsTwoFactor: true, TempToken: in.TempToken}
			return nil
		case signErr != nil:
			return apperrors.Wrap(signErr, apperrors.ErrCodeSignIn, "failed to sign in")
		}
		token, issueErr := s.issue(ctx, c, in.TempToken)
		if issueErr != nil {
			return issueErr
		}
		res = &LoginResult{SessionToken: token}
		return nil
	})
	if err != nil {
		s.logger.InfoContext(ctx, "code sign in failed", "phone", maskPhone(in.Phone), "error", err)
		return nil, err
	}
	if res.NeedsTwoFactor {
		s.logger.InfoContext(ctx, "two-factor password required", "phone", maskPhone(in.Phone))
	} else {
		s.logger.InfoContext(ctx, "signed in with code", "phone", maskPhone(in.Phone))
	}
	return res, nil
}

// VerifyTwoFactorInput groups the password phase parameters.
type VerifyTwoFactorInput struct {
	TempToken string
	Password  string
}

// VerifyTwoFactor completes a login that VerifyCode reported as NeedsTwoFactor.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, in VerifyTwoFactorInput) (res *LoginResult, err error) {
	defer func() { s.metrics.AuthPhase(metrics.PhaseVerify2FA, err) }()

	payload, err := s.loadTemp(ctx, in.TempToken)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		if pwErr := c.SignInPassword(ctx, in.Password); pwErr != nil {
			return apperrors.Wrap(pwErr, apperrors.ErrCodeSignIn, "failed to sign in")
		}
		token, issueErr := s.issue(ctx, c, in.TempToken)
		if issueErr != nil {
			return issueErr
		}
		res = &LoginResult{SessionToken: token}
		return nil
	})
	if err != nil {
		s.logger.InfoContext(ctx, "password sign in failed", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "signed in with password")
	return res, nil
}

// Logout forgets the session behind token. It never fails: an unknown token
// is already logged out and store errors are only logged.
func (s *AuthService) Logout(ctx context.Context, token string) {
	err := s.sessions.DeleteSession(ctx, token)
	s.metrics.AuthPhase(metrics.PhaseLogout, err)
	if err != nil {
		s.logger.WarnContext(ctx, "logout: delete session", "error", err)
	}
}

// Authorize reports whether token's session is still signed in on the service.
// Missing and unknown tokens report false without contacting it.
func (s *AuthService) Authorize(ctx context.Context, token string) (bool, error) {
	payload, err := s.sessions.GetSessionPayload(ctx, token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load session")
	}

	var ok bool
	err = withClient(ctx, s.clients, s.logger, payload, func(c ports.Client) error {
		var callErr error
		ok, callErr = c.Authorized(ctx)
		if callErr != nil {
			return apperrors.Wrap(callErr, apperrors.ErrCodeProtocol, "failed to check authorization")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *AuthService) loadTemp(ctx context.Context, tempToken string) (string, error) {
	payload, err := s.sessions.GetSessionPayload(ctx, tempToken)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return "", apperrors.TokenExpired(expiredTokenMsg)
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "load login session")
	}
	return payload, nil
}

// resaveTemp stores the pending-password state under the same temp token with
// a fresh temp TTL, so the password phase resumes where the code phase stopped.
func (s *AuthService) resaveTemp(ctx context.Context, c ports.Client, tempToken string) error {
	payload, err := c.Payload(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "serialize session")
	}
	if err := s.sessions.SetSessionPayload(ctx, tempToken, payload, s.tempTTL); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "store login session")
	}
	return nil
}

// issue stores the signed-in payload under a new persistent token and retires
// the temp token.
func (s *AuthService) issue(ctx context.Context, c ports.Client, tempToken string) (string, error) {
	payload, err := c.Payload(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "serialize session")
	}
	token := generateToken()
	if err := s.sessions.SetSessionPayload(ctx, token, payload, 0); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "store session")
	}
	if err := s.sessions.DeleteSession(ctx, tempToken); err != nil {
		s.logger.WarnContext(ctx, "retire temp token", "error", fmt.Errorf("issue session: %w", err))
	}
	return token, nil
}
