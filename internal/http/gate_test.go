package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/target/tgchat/internal/domain/auth"
)

func TestGate(t *testing.T) {
	tests := []struct {
		name      string
		hasCookie bool
		path      string
		want      Decision
	}{
		{"no cookie root", false, "/", RedirectToAuth},
		{"no cookie chats", false, "/chats", RedirectToAuth},
		{"no cookie chat", false, "/chats/user:1:1", RedirectToAuth},
		{"no cookie auth", false, "/auth", Allow},
		{"no cookie auth subpath", false, "/auth/step", Allow},
		{"cookie auth", true, "/auth", RedirectToChats},
		{"cookie auth subpath", true, "/auth/step", RedirectToChats},
		{"cookie chats", true, "/chats", Allow},
		{"cookie root", true, "/", Allow},
		{"no cookie lookalike prefix", false, "/authors", RedirectToAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gate(tt.hasCookie, tt.path))
		})
	}
}

func TestSessionGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := SessionToken()(SessionGate()(next))

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{name: "chats without cookie", path: "/chats", status: http.StatusSeeOther, location: "/auth"},
		{name: "root without cookie", path: "/", status: http.StatusSeeOther, location: "/auth"},
		{name: "auth with cookie", path: "/auth", cookie: "tok", status: http.StatusSeeOther, location: "/chats"},
		{name: "auth without cookie", path: "/auth", status: http.StatusTeapot},
		{name: "chats with cookie", path: "/chats/user:1:1", cookie: "tok", status: http.StatusTeapot},
		{name: "invalid cookie still allowed", path: "/chats", cookie: "not-a-real-token", status: http.StatusTeapot},
		{name: "api bypasses gate", path: "/api/me", status: http.StatusTeapot},
		{name: "health bypasses gate", path: "/healthz", status: http.StatusTeapot},
		{name: "metrics bypasses gate", path: "/metrics", status: http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: domainauth.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect_auth", RedirectToAuth.String())
	assert.Equal(t, "redirect_chats", RedirectToChats.String())
}
