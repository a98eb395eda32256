package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	tgchat "github.com/target/tgchat"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthActions
	Chat    ChatActions
	Cookies CookieConfig
	// AuthRateLimit throttles login-flow posts. The zero value disables it.
	AuthRateLimit RateLimitConfig
	// Metrics, when set, is mounted at MetricsPath.
	Metrics     http.Handler
	MetricsPath string
	// Optional: template filesystem override. Defaults to the embedded set,
	// or web/templates on disk in dev mode.
	TemplateFS fs.FS
	IsDev      bool         // Development mode flag for reading templates from disk
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP router: JSON actions under /api, gated pages and
// health/metrics endpoints. Logging and recovery are applied by the caller.
func NewRouter(services RouterServices) (http.Handler, error) {
	mux := http.NewServeMux()
	limit := RateLimit(services.AuthRateLimit)

	authHandlers := &AuthHandlers{Svc: services.Auth, Cookies: services.Cookies, Logger: services.Logger}
	chatHandlers := &ChatHandlers{Svc: services.Chat}
	registerAuthRoutes(mux, authHandlers, limit)
	registerChatRoutes(mux, chatHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.Metrics)
	}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Logger:     services.Logger,
	})
	if err != nil {
		return nil, err
	}
	ui := &UIHandlers{
		T:       renderer,
		Auth:    services.Auth,
		Chat:    services.Chat,
		Cookies: services.Cookies,
		Logger:  services.Logger,
	}
	registerUIRoutes(mux, ui, limit)

	return SessionToken()(SessionGate()(mux)), nil
}

func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(tgchat.TemplateFS, "web/templates")
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/auth/code", limit(http.HandlerFunc(h.Code)))
	mux.Handle("POST /api/auth/password", limit(http.HandlerFunc(h.Password)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/status", http.HandlerFunc(h.Status))
}

func registerChatRoutes(mux *http.ServeMux, h *ChatHandlers) {
	mux.Handle("GET /api/me", http.HandlerFunc(h.Me))
	mux.Handle("GET /api/dialogs", http.HandlerFunc(h.Dialogs))
	mux.Handle("GET /api/chats/{id}/messages", http.HandlerFunc(h.Messages))
	mux.Handle("POST /api/chats/{id}/messages", http.HandlerFunc(h.Send))
	mux.Handle("POST /api/messages/broadcast", http.HandlerFunc(h.Broadcast))
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, limit func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", http.HandlerFunc(h.Root))
	mux.Handle("GET /auth", http.HandlerFunc(h.AuthPage))
	mux.Handle("POST /auth", limit(http.HandlerFunc(h.AuthSubmit)))
	mux.Handle("POST /logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /chats", http.HandlerFunc(h.Chats))
	mux.Handle("GET /chats/{id}", http.HandlerFunc(h.ChatPage))
	mux.Handle("POST /chats/{id}", http.HandlerFunc(h.ChatSend))
}
