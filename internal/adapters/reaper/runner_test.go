package reaper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/tgchat/internal/adapters/memory"
	"github.com/target/tgchat/internal/observability/metrics"
	"github.com/target/tgchat/internal/testutil"
)

func TestNewRunner_RequiresStore(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)
}

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(testutil.TestTime())
	store := memory.NewSessionStoreWithClock(clock.Now)
	require.NoError(t, store.Put(ctx, "temp", "p1", time.Minute))
	require.NoError(t, store.Put(ctx, "persistent", "p2", 0))

	reg := prometheus.NewRegistry()
	r, err := NewRunner(RunnerOptions{
		Store:    store,
		Interval: time.Minute,
		Now:      clock.Now,
		Metrics:  metrics.NewRecorder(reg),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, r.SweepOnce(ctx))
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, r.SweepOnce(ctx))
	assert.Equal(t, 1, store.Len())

	expected := `
# HELP tgchat_sessions_stored Session records currently held by the in-memory store.
# TYPE tgchat_sessions_stored gauge
tgchat_sessions_stored 1
`
	assert.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "tgchat_sessions_stored"))

	_, err = store.Get(ctx, "persistent")
	assert.NoError(t, err, "records without expiry survive sweeps")
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	r, err := NewRunner(RunnerOptions{Store: memory.NewSessionStore()})
	require.NoError(t, err)
	assert.NoError(t, r.Run(context.Background()))
}

func TestRun_StopsOnCancel(t *testing.T) {
	r, err := NewRunner(RunnerOptions{Store: memory.NewSessionStore(), Interval: time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
