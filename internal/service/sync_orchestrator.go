// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/life-sync/internal/adapter"
	"github.com/MKhiriev/life-sync/internal/auth"
	"github.com/MKhiriev/life-sync/internal/classifier"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/store"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
)

const (
	defaultMaxRetries       = 3
	defaultEnqueueDelay     = 500 * time.Millisecond
	defaultResolvedToRetain = 50
)

// OrchestratorConfig tunes a [SyncOrchestrator].
type OrchestratorConfig struct {
	// Modules are polled for remote changes even before anything was queued
	// for them.
	Modules []string
	// DefaultMaxRetries replaces a non-positive maxRetries passed to Enqueue.
	DefaultMaxRetries int
	// EnqueueDelay batches near-simultaneous enqueues into one drain.
	EnqueueDelay time.Duration
	// ResolvedToRetain caps the resolved conflicts kept for diagnostics.
	ResolvedToRetain int
}

// OrchestratorOption customizes a [SyncOrchestrator].
type OrchestratorOption func(*syncOrchestrator)

// WithMetrics reports orchestrator activity to m.
func WithMetrics(m MetricsRecorder) OrchestratorOption {
	return func(o *syncOrchestrator) { o.metrics = m }
}

// WithInitialOnline sets the connectivity assumed until the first SetOnline.
func WithInitialOnline(online bool) OrchestratorOption {
	return func(o *syncOrchestrator) { o.online = online }
}

// moduleDocument is a document handed back to module producers.
type moduleDocument struct {
	module  string
	payload json.RawMessage
}

// notification collects what observers must hear about one transition.
type notification struct {
	status    *models.SyncStatus
	statusSeq uint64
	conflicts []models.ConflictRecord
	documents []moduleDocument
}

type syncOrchestrator struct {
	remote  adapter.RemoteStore
	repo    store.SyncStateRepository
	creds   auth.CredentialProvider
	metrics MetricsRecorder
	cfg     OrchestratorConfig

	now     func() time.Time
	backoff func(retryCount int, kind classifier.ErrorKind) time.Duration
	ids     *utils.UUIDGenerator

	// ctx bounds drains started by timers; canceled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	loaded     bool
	closing    bool
	closed     bool
	online     bool
	draining   bool
	ops        []*models.SyncOperation
	conflicts  []*models.ConflictRecord
	modules    map[string]struct{}
	errorCount int
	lastSyncAt *time.Time
	status     models.SyncStatus

	newConflicts []models.ConflictRecord
	documents    []moduleDocument

	drainPending bool
	drainTimer   *time.Timer
	retryTimer   *time.Timer
	retryAt      time.Time
	drains       sync.WaitGroup

	// statusSeq numbers status transitions; deliveredSeq is the newest one
	// handed to observers, guarded by deliverMu.
	statusSeq    uint64
	deliverMu    sync.Mutex
	deliveredSeq uint64

	statusObservers   observerList[func(models.SyncStatus)]
	conflictObservers observerList[func(models.ConflictRecord)]
	dataObservers     observerList[func(string, json.RawMessage)]

	logger *logger.Logger
}

// NewSyncOrchestrator builds an orchestrator over the remote store, the local
// sync state and the credential provider. It starts online; call Load before
// use.
func NewSyncOrchestrator(
	remote adapter.RemoteStore,
	repo store.SyncStateRepository,
	creds auth.CredentialProvider,
	cfg OrchestratorConfig,
	log *logger.Logger,
	opts ...OrchestratorOption,
) SyncOrchestrator {
	if cfg.DefaultMaxRetries <= 0 {
		cfg.DefaultMaxRetries = defaultMaxRetries
	}
	if cfg.EnqueueDelay <= 0 {
		cfg.EnqueueDelay = defaultEnqueueDelay
	}
	if cfg.ResolvedToRetain <= 0 {
		cfg.ResolvedToRetain = defaultResolvedToRetain
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &syncOrchestrator{
		remote:  remote,
		repo:    repo,
		creds:   creds,
		metrics: nopMetrics{},
		cfg:     cfg,
		now:     time.Now,
		backoff: classifier.Backoff,
		ids:     utils.NewUUIDGenerator(),
		ctx:     ctx,
		cancel:  cancel,
		online:  true,
		modules: make(map[string]struct{}),
		logger:  log,
	}
	for _, opt := range opts {
		opt(o)
	}
	for _, m := range cfg.Modules {
		if m != "" {
			o.modules[m] = struct{}{}
		}
	}

	return o
}

func (o *syncOrchestrator) Load(ctx context.Context) error {
	snap, ok, err := o.repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load sync queue: %w", err)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrShutdown
	}

	var reset int
	o.ops = o.ops[:0]
	o.conflicts = o.conflicts[:0]
	if ok {
		for i := range snap.Operations {
			op := snap.Operations[i]
			switch op.State {
			case models.OperationCompleted:
				continue
			case models.OperationProcessing:
				op.State = models.OperationPending
				reset++
			}
			o.ops = append(o.ops, &op)
			o.modules[op.Module] = struct{}{}
		}
		slices.SortStableFunc(o.ops, func(a, b *models.SyncOperation) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})

		for i := range snap.Conflicts {
			c := snap.Conflicts[i]
			o.conflicts = append(o.conflicts, &c)
		}
		for _, m := range snap.Modules {
			o.modules[m] = struct{}{}
		}
		o.errorCount = max(0, snap.ErrorCount)
		o.lastSyncAt = copyTime(snap.LastSyncAt)
	}
	o.loaded = true

	n := o.transitionLocked(ctx)
	opsCount, conflictsCount := len(o.ops), len(o.conflicts)
	o.mu.Unlock()
	o.emit(n)

	o.logger.Info().
		Str("func", "syncOrchestrator.Load").
		Int("operations", opsCount).
		Int("conflicts", conflictsCount).
		Int("reset_to_pending", reset).
		Msg("sync queue loaded")
	return nil
}

func (o *syncOrchestrator) Enqueue(ctx context.Context, kind models.OperationKind, module string, payload json.RawMessage, maxRetries int) (models.SyncOperation, error) {
	if err := validateOperation(kind, module, payload); err != nil {
		return models.SyncOperation{}, err
	}
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return models.SyncOperation{}, err
	}
	if kind == models.OperationUpload {
		o.noteLocalEditLocked(module, payload, o.now().UTC())
	}
	op := o.enqueueLocked(kind, module, payload, maxRetries)
	if authenticated {
		o.scheduleDrainLocked(o.cfg.EnqueueDelay)
	}
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	return op, nil
}

func validateOperation(kind models.OperationKind, module string, payload json.RawMessage) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperationKind, kind)
	}
	if module == "" {
		return ErrEmptyModule
	}
	if kind == models.OperationUpload {
		if len(payload) == 0 {
			return ErrPayloadRequired
		}
		if !json.Valid(payload) {
			return ErrInvalidPayload
		}
	}
	return nil
}

func (o *syncOrchestrator) enqueueLocked(kind models.OperationKind, module string, payload json.RawMessage, maxRetries int) models.SyncOperation {
	if maxRetries <= 0 {
		maxRetries = o.cfg.DefaultMaxRetries
	}
	if kind != models.OperationUpload {
		payload = nil
	}

	op := &models.SyncOperation{
		ID:         o.ids.Generate(),
		Kind:       kind,
		Module:     module,
		Payload:    bytes.Clone(payload),
		CreatedAt:  o.now().UTC(),
		MaxRetries: maxRetries,
		State:      models.OperationPending,
	}
	o.ops = append(o.ops, op)
	o.modules[module] = struct{}{}
	o.metrics.RecordEnqueued(kind)

	o.logger.Debug().
		Str("func", "syncOrchestrator.enqueue").
		Str("op_id", op.ID).
		Str("kind", string(kind)).
		Str("module", module).
		Int("max_retries", maxRetries).
		Msg("operation enqueued")

	return cloneOperation(op)
}

func (o *syncOrchestrator) Status() models.SyncStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := o.status
	st.LastSyncAt = copyTime(st.LastSyncAt)
	return st
}

func (o *syncOrchestrator) PendingConflicts() []models.ConflictRecord {
	o.mu.Lock()
	defer o.mu.Unlock()

	var pending []models.ConflictRecord
	for _, c := range o.conflicts {
		if !c.Resolved {
			pending = append(pending, cloneConflict(c))
		}
	}
	return pending
}

func (o *syncOrchestrator) Operations() []models.SyncOperation {
	o.mu.Lock()
	defer o.mu.Unlock()

	ops := make([]models.SyncOperation, 0, len(o.ops))
	for _, op := range o.ops {
		ops = append(ops, cloneOperation(op))
	}
	return ops
}

func (o *syncOrchestrator) OnStatusChange(cb func(models.SyncStatus)) func() {
	return o.statusObservers.add(cb)
}

func (o *syncOrchestrator) OnConflict(cb func(models.ConflictRecord)) func() {
	return o.conflictObservers.add(cb)
}

func (o *syncOrchestrator) OnModuleData(cb func(module string, payload json.RawMessage)) func() {
	return o.dataObservers.add(cb)
}

func (o *syncOrchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if o.closing {
		o.mu.Unlock()
		return nil
	}
	o.closing = true
	o.stopTimersLocked()
	o.mu.Unlock()

	if err := o.waitForDrains(ctx); err != nil {
		o.cancel()
		o.drains.Wait()
	}
	if ctx.Err() == nil {
		o.drain(ctx, true)
	}
	o.cancel()

	o.mu.Lock()
	err := o.persistLocked(ctx)
	o.closed = true
	pending := len(o.ops)
	o.mu.Unlock()

	o.logger.Info().
		Str("func", "syncOrchestrator.Shutdown").
		Int("operations", pending).
		Msg("sync queue flushed")
	return err
}

func (o *syncOrchestrator) waitForDrains(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.drains.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *syncOrchestrator) usableLocked() error {
	switch {
	case o.closed:
		return ErrShutdown
	case !o.loaded:
		return ErrNotLoaded
	default:
		return nil
	}
}

// transitionLocked persists the queue, recomputes the status and collects
// the pending notifications. Callers deliver the result with emit after
// releasing o.mu.
func (o *syncOrchestrator) transitionLocked(ctx context.Context) notification {
	_ = o.persistLocked(ctx)

	var n notification
	st := o.computeStatusLocked()
	if !st.Equal(o.status) {
		o.status = st
		o.statusSeq++
		n.status = &st
		n.statusSeq = o.statusSeq
		o.metrics.SetStatus(st)
		o.logger.Info().
			Str("func", "syncOrchestrator.transition").
			Str("aggregate", string(st.Aggregate)).
			Int("pending", st.PendingCount).
			Int("failed", st.FailedCount).
			Int("errors", st.ErrorCount).
			Msg("sync status changed")
	}

	n.conflicts, o.newConflicts = o.newConflicts, nil
	n.documents, o.documents = o.documents, nil
	return n
}

func (o *syncOrchestrator) computeStatusLocked() models.SyncStatus {
	st := models.SyncStatus{
		Online:     o.online,
		Syncing:    o.draining,
		LastSyncAt: copyTime(o.lastSyncAt),
		ErrorCount: o.errorCount,
	}
	for _, op := range o.ops {
		switch op.State {
		case models.OperationPending, models.OperationProcessing:
			st.PendingCount++
		case models.OperationFailed:
			st.FailedCount++
		}
	}
	st.Aggregate = st.DeriveAggregate()
	return st
}

// persistLocked writes the queue snapshot. Failures are logged and returned
// but never stop the orchestrator; the next transition retries the write.
func (o *syncOrchestrator) persistLocked(ctx context.Context) error {
	if !o.loaded || o.closed {
		return nil
	}

	// the local write must survive cancellation of the triggering call
	if err := o.repo.SaveSnapshot(context.WithoutCancel(ctx), o.snapshotLocked()); err != nil {
		o.logger.Err(err).Str("func", "syncOrchestrator.persist").Msg("persisting sync queue failed")
		return err
	}
	return nil
}

func (o *syncOrchestrator) snapshotLocked() models.QueueSnapshot {
	snap := models.QueueSnapshot{
		Operations:      make([]models.SyncOperation, 0, len(o.ops)),
		Conflicts:       make([]models.ConflictRecord, 0, len(o.conflicts)),
		Modules:         o.knownModulesLocked(),
		ErrorCount:      o.errorCount,
		LastSyncAt:      copyTime(o.lastSyncAt),
		LastPersistedAt: o.now().UTC(),
	}
	for _, op := range o.ops {
		snap.Operations = append(snap.Operations, cloneOperation(op))
	}
	for _, c := range o.conflicts {
		snap.Conflicts = append(snap.Conflicts, cloneConflict(c))
	}
	return snap
}

func (o *syncOrchestrator) knownModulesLocked() []string {
	modules := make([]string, 0, len(o.modules))
	for m := range o.modules {
		modules = append(modules, m)
	}
	slices.Sort(modules)
	return modules
}

func (o *syncOrchestrator) findOperationLocked(id string) *models.SyncOperation {
	for _, op := range o.ops {
		if op.ID == id {
			return op
		}
	}
	return nil
}

func (o *syncOrchestrator) removeOperationLocked(id string) {
	o.ops = slices.DeleteFunc(o.ops, func(op *models.SyncOperation) bool { return op.ID == id })
}

// noteLocalEditLocked keeps the unresolved conflict of module offering the
// latest local edit, so resolving it never discards a newer document.
func (o *syncOrchestrator) noteLocalEditLocked(module string, payload json.RawMessage, at time.Time) {
	if c := o.unresolvedConflictLocked(module); c != nil {
		c.LocalPayload = bytes.Clone(payload)
		c.LocalTimestamp = at
	}
}

func (o *syncOrchestrator) unresolvedConflictLocked(module string) *models.ConflictRecord {
	for _, c := range o.conflicts {
		if c.Module == module && !c.Resolved {
			return c
		}
	}
	return nil
}

// emit delivers a notification. Must be called without holding o.mu.
// A status older than one already delivered is dropped.
func (o *syncOrchestrator) emit(n notification) {
	if n.status != nil && o.claimStatus(n.statusSeq) {
		for _, cb := range o.statusObservers.snapshot() {
			cb(*n.status)
		}
	}
	for _, c := range n.conflicts {
		for _, cb := range o.conflictObservers.snapshot() {
			cb(c)
		}
	}
	for _, d := range n.documents {
		for _, cb := range o.dataObservers.snapshot() {
			cb(d.module, d.payload)
		}
	}
}

func (o *syncOrchestrator) claimStatus(seq uint64) bool {
	o.deliverMu.Lock()
	defer o.deliverMu.Unlock()

	if seq <= o.deliveredSeq {
		return false
	}
	o.deliveredSeq = seq
	return true
}

func (o *syncOrchestrator) refreshCredentials(ctx context.Context) {
	if _, err := o.creds.RefreshAccessToken(ctx); err != nil {
		level := o.logger.Warn()
		if errors.Is(err, auth.ErrRefreshUnsupported) {
			level = o.logger.Debug()
		}
		level.Err(err).Str("func", "syncOrchestrator.refreshCredentials").Msg("credential refresh failed")
		return
	}
	o.logger.Info().Str("func", "syncOrchestrator.refreshCredentials").Msg("credentials refreshed after auth failure")
}

func cloneOperation(op *models.SyncOperation) models.SyncOperation {
	c := *op
	c.Payload = bytes.Clone(op.Payload)
	c.NextAttemptAt = copyTime(op.NextAttemptAt)
	return c
}

func cloneConflict(c *models.ConflictRecord) models.ConflictRecord {
	cp := *c
	cp.LocalPayload = bytes.Clone(c.LocalPayload)
	cp.RemotePayload = bytes.Clone(c.RemotePayload)
	return cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type nopMetrics struct{}

func (nopMetrics) RecordEnqueued(models.OperationKind) {}
func (nopMetrics) RecordCompleted(models.OperationKind) {}
func (nopMetrics) RecordRetry(models.OperationKind, classifier.ErrorKind) {}
func (nopMetrics) RecordFailed(models.OperationKind, classifier.ErrorKind) {}
func (nopMetrics) RecordConflict(string) {}
func (nopMetrics) ObserveDrain(time.Duration) {}
func (nopMetrics) SetStatus(models.SyncStatus) {}
