package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyPasses считает вызовы Drain и Poll.
type spyPasses struct {
	drains atomic.Int64
	polls  atomic.Int64
	block  chan struct{}
}

func (s *spyPasses) Drain(ctx context.Context) {
	s.drains.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
		}
	}
}

func (s *spyPasses) Poll(_ context.Context) {
	s.polls.Add(1)
}

// ── NewSyncScheduler ─────────────────────────────────────────────────────────

func TestNewSyncScheduler_ReturnsInterface(t *testing.T) {
	s := NewSyncScheduler(&spyPasses{}, logger.Nop())
	require.NotNil(t, s)

	var _ SyncScheduler = s
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestSyncScheduler_Start_RunsBothPasses(t *testing.T) {
	spy := &spyPasses{}
	s := NewSyncScheduler(spy, logger.Nop())

	require.NoError(t, s.Start(context.Background(), time.Second, time.Second))
	time.Sleep(1500 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, spy.drains.Load(), int64(1))
	assert.GreaterOrEqual(t, spy.polls.Load(), int64(1))
}

func TestSyncScheduler_Start_DefaultIntervals(t *testing.T) {
	spy := &spyPasses{}
	s := NewSyncScheduler(spy, logger.Nop()).(*syncScheduler)

	// интервалы <= 0 → 30s и 2m, за 50ms вызовов нет
	require.NoError(t, s.Start(context.Background(), 0, -time.Second))

	s.mu.Lock()
	entries := s.cron.Entries()
	s.mu.Unlock()
	require.Len(t, entries, 2)

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Zero(t, spy.drains.Load())
	assert.Zero(t, spy.polls.Load())
}

func TestSyncScheduler_Stop_StopsJobs(t *testing.T) {
	spy := &spyPasses{}
	s := NewSyncScheduler(spy, logger.Nop())

	require.NoError(t, s.Start(context.Background(), time.Second, time.Hour))
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	after := spy.drains.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, spy.drains.Load(), "после Stop новых вызовов быть не должно")
}

func TestSyncScheduler_Stop_CancelsRunningPass(t *testing.T) {
	spy := &spyPasses{block: make(chan struct{})}
	s := NewSyncScheduler(spy, logger.Nop())

	require.NoError(t, s.Start(context.Background(), time.Second, time.Hour))
	require.Eventually(t, func() bool { return spy.drains.Load() > 0 }, 3*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop завис на выполняющемся проходе")
	}
}

func TestSyncScheduler_Stop_BeforeStart_NoPanic(t *testing.T) {
	s := NewSyncScheduler(&spyPasses{}, logger.Nop())

	assert.NotPanics(t, func() { s.Stop() })
	assert.NotPanics(t, func() { s.Stop() })
}

func TestSyncScheduler_Restart_ReplacesSchedule(t *testing.T) {
	spy := &spyPasses{}
	s := NewSyncScheduler(spy, logger.Nop()).(*syncScheduler)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx, time.Hour, time.Hour))
	first := s.cron
	require.NoError(t, s.Start(ctx, time.Hour, time.Hour))
	defer s.Stop()

	assert.NotSame(t, first, s.cron)
	assert.Len(t, s.cron.Entries(), 2)
}
