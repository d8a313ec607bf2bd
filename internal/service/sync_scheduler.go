package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/robfig/cron/v3"
)

const (
	defaultDrainEvery = 30 * time.Second
	defaultPollEvery  = 2 * time.Minute
)

// SyncPasses is the part of [SyncOrchestrator] driven by a [SyncScheduler].
type SyncPasses interface {
	Drain(ctx context.Context)
	Poll(ctx context.Context)
}

type syncScheduler struct {
	passes SyncPasses

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc

	logger *logger.Logger
}

// NewSyncScheduler creates a scheduler for passes. The scheduler is idle
// until Start is called.
func NewSyncScheduler(passes SyncPasses, log *logger.Logger) SyncScheduler {
	return &syncScheduler{passes: passes, logger: log}
}

// Start implements SyncScheduler. Non-positive intervals select 30s for
// drains and 2m for polls. Cron runs with second granularity, so shorter
// intervals are rounded up to one second. A pass still running when its next
// tick fires is not started twice.
func (s *syncScheduler) Start(ctx context.Context, drainEvery, pollEvery time.Duration) error {
	if drainEvery <= 0 {
		drainEvery = defaultDrainEvery
	}
	if pollEvery <= 0 {
		pollEvery = defaultPollEvery
	}

	s.Stop()

	cl := logger.CronLogger(s.logger)
	c := cron.New(
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)

	jobCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(every(drainEvery), func() { s.passes.Drain(jobCtx) }); err != nil {
		cancel()
		return err
	}
	if _, err := c.AddFunc(every(pollEvery), func() { s.passes.Poll(jobCtx) }); err != nil {
		cancel()
		return err
	}

	s.mu.Lock()
	s.cron = c
	s.cancel = cancel
	s.mu.Unlock()

	c.Start()
	s.logger.Info().
		Str("func", "syncScheduler.Start").
		Dur("drain_every", drainEvery).
		Dur("poll_every", pollEvery).
		Msg("sync schedule started")
	return nil
}

// Stop implements SyncScheduler. Safe to call when the scheduler is not
// running.
func (s *syncScheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	// cancel first so a running pass returns early instead of delaying Stop
	cancel()
	<-c.Stop().Done()
}

func every(d time.Duration) string {
	return "@every " + d.String()
}
