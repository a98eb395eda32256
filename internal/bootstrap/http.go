package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/tgchat/config"
	httpx "github.com/target/tgchat/internal/http"
	"github.com/target/tgchat/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// NewHTTPServer builds the server with the router and request middleware.
// It does not start listening.
func NewHTTPServer(cfg HTTPServerConfig) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth: cfg.Services.Auth,
		Chat: cfg.Services.Chat,
		Cookies: httpx.CookieConfig{
			Secure: appCfg.HTTP.CookieSecure,
			Domain: appCfg.HTTP.CookieDomain,
		},
		AuthRateLimit: httpx.RateLimitConfig{
			PerSecond: appCfg.HTTP.AuthRateLimit,
			Burst:     appCfg.HTTP.AuthRateBurst,
		},
		IsDev:  appCfg.IsDev,
		Logger: logger,
	}
	if appCfg.Observability.Metrics.IsEnabled() {
		services.Metrics = cfg.Metrics.Handler()
		services.MetricsPath = appCfg.Observability.Metrics.Path
	}

	router, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	// Order: Recover -> Logging -> Router
	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// serveHTTP runs server until ctx is cancelled, then shuts it down within timeout.
func serveHTTP(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
