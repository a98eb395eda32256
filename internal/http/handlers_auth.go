package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/tgchat/internal/service"
)

// AuthActions is the login-flow surface the handlers drive.
type AuthActions interface {
	StartLogin(ctx context.Context, phone string) (*service.StartLoginResult, error)
	VerifyCode(ctx context.Context, in service.VerifyCodeInput) (*service.LoginResult, error)
	VerifyTwoFactor(ctx context.Context, in service.VerifyTwoFactorInput) (*service.LoginResult, error)
	Logout(ctx context.Context, token string)
	Authorize(ctx context.Context, token string) (bool, error)
}

// AuthHandlers provides JSON handlers for the login flow.
type AuthHandlers struct {
	Svc     AuthActions
	Cookies CookieConfig
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Phone string `json:"phone"`
}

type codeRequest struct {
	TempToken string `json:"temp_token"`
	Phone     string `json:"phone"`
	Code      string `json:"code"`
}

type passwordRequest struct {
	TempToken string `json:"temp_token"`
	Password  string `json:"password"`
}

// Login starts a login and returns the temp token.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.StartLogin(r.Context(), req.Phone)
	if err != nil {
		writeActionError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ActionResult{Success: true, TempToken: res.TempToken})
}

// Code submits the login code. On success the session cookie is set; when a
// password is required the response carries needs_2fa and the temp token.
// POST /api/auth/code.
func (h *AuthHandlers) Code(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.VerifyCode(r.Context(), service.VerifyCodeInput{
		TempToken: req.TempToken,
		Phone:     req.Phone,
		Code:      req.Code,
	})
	h.finishLogin(w, res, err)
}

// Password submits the two-factor password.
// POST /api/auth/password.
func (h *AuthHandlers) Password(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.VerifyTwoFactor(r.Context(), service.VerifyTwoFactorInput{
		TempToken: req.TempToken,
		Password:  req.Password,
	})
	h.finishLogin(w, res, err)
}

func (h *AuthHandlers) finishLogin(w http.ResponseWriter, res *service.LoginResult, err error) {
	if err != nil {
		writeActionError(w, err)
		return
	}
	if res.NeedsTwoFactor {
		WriteJSON(w, http.StatusOK, ActionResult{NeedsTwoFactor: true, TempToken: res.TempToken})
		return
	}
	setSessionCookie(w, h.Cookies, res.SessionToken)
	WriteJSON(w, http.StatusOK, ActionResult{Success: true})
}

// Logout forgets the current session and clears the cookie. Always succeeds.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		h.Svc.Logout(r.Context(), token)
	}
	clearSessionCookie(w, h.Cookies)
	WriteJSON(w, http.StatusOK, ActionResult{Success: true})
}

type statusData struct {
	Authorized bool `json:"authorized"`
}

// Status reports whether the cookie's session is still signed in. A cookie
// that no longer authorizes is cleared.
// GET /api/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, DataResult{Data: statusData{}})
		return
	}
	ok, err := h.Svc.Authorize(r.Context(), token)
	if err != nil {
		h.logger().WarnContext(r.Context(), "authorization check failed", "error", err)
		writeDataError(w, err)
		return
	}
	if !ok {
		clearSessionCookie(w, h.Cookies)
	}
	WriteJSON(w, http.StatusOK, DataResult{Data: statusData{Authorized: ok}})
}
