package httpx

import (
	"net/http"
	"time"

	domainauth "github.com/target/tgchat/internal/domain/auth"
)

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
	Domain string
}

// setSessionCookie binds token to the browser. The cookie has no max-age;
// the store decides when the token stops resolving.
func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     domainauth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie. It mirrors the attributes used
// when setting it so browsers match and delete the same cookie.
func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     domainauth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
