// Package reaper runs the periodic sweep that purges lapsed in-memory sessions.
package reaper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/target/tgchat/internal/observability/metrics"
)

// Sweeper is the store surface the reaper drives.
type Sweeper interface {
	// Sweep removes records that lapsed at or before now and returns how many went.
	Sweep(now time.Time) int
	Len() int
}

// Runner sweeps a session store on an interval.
type Runner struct {
	store    Sweeper
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Store Sweeper // Required
	// Interval between sweeps. Zero or less disables the runner.
	Interval time.Duration
	Logger   *slog.Logger

	// Optional dependency injection for testing/decoupling
	Now     func() time.Time
	Metrics *metrics.Recorder
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		store:    opts.Store,
		interval: opts.Interval,
		now:      opts.Now,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run sweeps until the context is cancelled. A disabled runner returns at once.
func (r *Runner) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.InfoContext(ctx, "session reaper disabled")
		return nil
	}
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.metrics.SetSessions(r.store.Len())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep and refreshes the stored-sessions gauge.
func (r *Runner) SweepOnce(ctx context.Context) int {
	removed := r.store.Sweep(r.now())
	r.metrics.SetSessions(r.store.Len())
	if removed > 0 {
		r.logger.DebugContext(ctx, "swept lapsed sessions", "removed", removed)
	}
	return removed
}
