package httpx

import (
	"net/http"
	"strings"
)

// Decision is the outcome of the page gate.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// RedirectToAuth sends a cookie-less browser to the login page.
	RedirectToAuth
	// RedirectToChats sends a browser with a cookie away from the login page.
	RedirectToChats
)

const (
	authPath  = "/auth"
	chatsPath = "/chats"
)

func (d Decision) String() string {
	switch d {
	case RedirectToAuth:
		return "redirect_auth"
	case RedirectToChats:
		return "redirect_chats"
	default:
		return "allow"
	}
}

// Gate decides where a page request goes from cookie presence alone.
// The token is not checked; an invalid cookie surfaces as an action error.
func Gate(hasCookie bool, path string) Decision {
	onAuth := underPrefix(path, authPath)
	switch {
	case !hasCookie && !onAuth:
		return RedirectToAuth
	case hasCookie && onAuth:
		return RedirectToChats
	default:
		return Allow
	}
}

// gated reports whether the gate applies to path: the root, /chats and /auth trees.
func gated(path string) bool {
	return path == "/" || underPrefix(path, chatsPath) || underPrefix(path, authPath)
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// SessionGate applies Gate to page routes and passes everything else through.
func SessionGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gated(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			switch Gate(sessionToken(r) != "", r.URL.Path) {
			case RedirectToAuth:
				http.Redirect(w, r, authPath, http.StatusSeeOther)
			case RedirectToChats:
				http.Redirect(w, r, chatsPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
