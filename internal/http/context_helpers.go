package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/tgchat/internal/domain/auth"
)

// tokenKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type tokenKey struct{}

// SetSessionTokenInContext returns a child context that carries the cookie token.
// If token is empty, the original ctx is returned unchanged.
func SetSessionTokenInContext(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetSessionTokenFromContext returns the cookie token and whether one was present.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	if token, ok := ctx.Value(tokenKey{}).(string); ok && token != "" {
		return token, true
	}
	return "", false
}

// sessionToken returns the token bound to the request, from context when the
// SessionToken middleware ran and from the cookie otherwise.
func sessionToken(r *http.Request) string {
	if token, ok := GetSessionTokenFromContext(r.Context()); ok {
		return token
	}
	c, err := r.Cookie(domainauth.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SessionToken copies the session cookie value, if any, into the request context.
// It performs no validation.
func SessionToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(domainauth.SessionCookieName); err == nil && c.Value != "" {
				r = r.WithContext(SetSessionTokenInContext(r.Context(), c.Value))
			}
			next.ServeHTTP(w, r)
		})
	}
}
