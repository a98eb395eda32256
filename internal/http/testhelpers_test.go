package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/tgchat/internal/adapters/devtelegram"
	"github.com/target/tgchat/internal/adapters/memory"
	domainauth "github.com/target/tgchat/internal/domain/auth"
	"github.com/target/tgchat/internal/service"
)

const testPhone = "+15551234567"

// testApp is the full router over the dev protocol provider, served by httptest.
type testApp struct {
	srv      *httptest.Server
	client   *http.Client
	provider *devtelegram.Provider
	store    *memory.SessionStore
}

type testAppOptions struct {
	Password  string
	RateLimit RateLimitConfig
}

func newTestApp(t *testing.T, opts testAppOptions) *testApp {
	t.Helper()
	provider := devtelegram.NewProvider(devtelegram.Config{Password: opts.Password})
	store := memory.NewSessionStore()
	sessions := service.NewSessionService(store)

	router, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{Clients: provider, Sessions: sessions}),
		Chat: service.NewChatService(service.ChatServiceOptions{Clients: provider, Sessions: sessions}),
		Cookies:       CookieConfig{},
		AuthRateLimit: opts.RateLimit,
		TemplateFS:    os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{srv: srv, client: client, provider: provider, store: store}
}

// JSONRequest encapsulates the parameters needed to execute a JSON HTTP request.
type JSONRequest struct {
	Method  string
	Path    string
	Payload any
}

// DoJSON performs req against the app and decodes the response body into out.
func (a *testApp) DoJSON(t *testing.T, req JSONRequest, out any) *http.Response {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var body io.Reader = http.NoBody
	if req.Payload != nil {
		b, err := json.Marshal(req.Payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.srv.URL+req.Path, body)
	require.NoError(t, err)
	if req.Payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// Get fetches a page and returns the response with its body read.
func (a *testApp) Get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	return readBody(t, resp)
}

// PostForm submits a form and returns the response with its body read.
func (a *testApp) PostForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (*http.Response, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

// login runs the code flow over the JSON API and leaves the session cookie in the jar.
func (a *testApp) login(t *testing.T) {
	t.Helper()
	var start ActionResult
	a.DoJSON(t, JSONRequest{Method: http.MethodPost, Path: "/api/auth/login", Payload: map[string]string{"phone": testPhone}}, &start)
	require.True(t, start.Success, start.Error)

	var done ActionResult
	a.DoJSON(t, JSONRequest{Method: http.MethodPost, Path: "/api/auth/code", Payload: map[string]string{
		"temp_token": start.TempToken,
		"phone":      testPhone,
		"code":       devtelegram.DefaultCode,
	}}, &done)
	require.True(t, done.Success, done.Error)
}

// cookieToken returns the session token currently held in the client's jar.
func (a *testApp) cookieToken(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == domainauth.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie in jar")
	return ""
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
