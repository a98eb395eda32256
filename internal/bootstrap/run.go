package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/tgchat/config"
	"github.com/target/tgchat/internal/adapters/reaper"
	"github.com/target/tgchat/internal/observability/metrics"
)

const defaultShutdownTimeout = 10 * time.Second

// Run builds the application from cfg and serves it until SIGINT/SIGTERM or
// ctx cancellation.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (err error) {
	if cfg == nil {
		return errors.New("app config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := BuildStores(ctx, StoreConfig{Session: cfg.Session, Redis: cfg.Redis, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stores.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close session store: %w", cerr))
		}
	}()

	rec := metrics.NewRecorder(nil)
	clients, err := BuildClientFactory(ClientConfig{Telegram: cfg.Telegram, Metrics: rec, Logger: logger})
	if err != nil {
		return err
	}

	services := NewServices(ServiceDeps{
		Config:   cfg,
		Sessions: stores.Sessions,
		Clients:  clients,
		Metrics:  rec,
		Logger:   logger,
	})
	server, err := NewHTTPServer(HTTPServerConfig{Config: cfg, Services: services, Metrics: rec, Logger: logger})
	if err != nil {
		return err
	}

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	logger.InfoContext(ctx, "starting tgchat",
		"session_backend", cfg.Session.Backend,
		"telegram_mode", cfg.Telegram.Mode,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
		"dev", cfg.IsDev)

	// Built before anything starts so a failure leaves nothing running.
	janitor, err := newJanitor(stores, cfg.Session, rec, logger)
	if err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return serveHTTP(gctx, server, timeout, logger) })
	if janitor != nil {
		group.Go(func() error { return janitor.Run(gctx) })
	}
	return group.Wait()
}

// newJanitor returns the sweeper for the in-memory backend, or nil when the
// backend expires entries itself.
func newJanitor(stores *Stores, cfg config.SessionConfig, rec *metrics.Recorder, logger *slog.Logger) (*reaper.Runner, error) {
	if stores == nil || stores.Memory == nil {
		return nil, nil //nolint:nilnil // self-expiring backends need no janitor
	}
	janitor, err := reaper.NewRunner(reaper.RunnerOptions{
		Store:    stores.Memory,
		Interval: cfg.SweepInterval,
		Logger:   logger,
		Metrics:  rec,
	})
	if err != nil {
		return nil, fmt.Errorf("create session reaper: %w", err)
	}
	return janitor, nil
}
