package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/life-sync/internal/classifier"
	"github.com/MKhiriev/life-sync/models"
)

// SyncOrchestrator owns the operation queue of one installation, the
// aggregate sync status and the conflict records, and schedules all remote
// work. Every state transition is persisted before observers are notified.
type SyncOrchestrator interface {
	// Load restores the persisted queue. Operations found in Processing are
	// returned to Pending. Must be called once before any other method.
	Load(ctx context.Context) error

	// Enqueue appends a Pending operation. A non-positive maxRetries selects
	// the configured default. The effective retry budget is also capped by
	// the error kind: an operation fails once retryCount reaches
	// min(maxRetries, classifier max for the kind), e.g. 3 for Server errors
	// even when maxRetries is 5. An Upload for a module with an unresolved
	// conflict becomes the local side of that conflict. When online and
	// authenticated a drain is scheduled shortly after, so that
	// near-simultaneous enqueues share one pass.
	Enqueue(ctx context.Context, kind models.OperationKind, module string, payload json.RawMessage, maxRetries int) (models.SyncOperation, error)

	// ForceSync starts a drain immediately, ignoring retry backoff. It
	// returns ErrOffline or ErrNotAuthenticated when no drain can run and
	// does nothing while another drain is in flight.
	ForceSync(ctx context.Context) error

	// Drain executes the Pending operations once, sequentially and in
	// creation order. Triggers arriving during a drain are ignored.
	Drain(ctx context.Context)

	// Poll checks every known module for a newer remote version and enqueues
	// a Download for each one found.
	Poll(ctx context.Context)

	// ResolveConflict adopts the local or the remote payload of a conflict.
	// Keeping the local payload enqueues a fresh Upload.
	ResolveConflict(ctx context.Context, conflictID string, keepLocal bool) error

	// SaveModule records a local edit of module and enqueues its Upload.
	SaveModule(ctx context.Context, module string, payload json.RawMessage) error
	// LoadModule returns the local record of module.
	LoadModule(ctx context.Context, module string) (models.ModuleRecord, bool, error)
	// DeleteModule forgets the local record of module and enqueues the
	// removal of every remote version.
	DeleteModule(ctx context.Context, module string) error

	// SetOnline records connectivity. Going online schedules a drain.
	SetOnline(online bool)

	Status() models.SyncStatus
	PendingConflicts() []models.ConflictRecord
	// Operations lists every queued operation, Failed ones included.
	Operations() []models.SyncOperation
	// RetryFailed returns a Failed operation to Pending with a fresh budget.
	RetryFailed(ctx context.Context, id string) error

	// OnStatusChange registers cb for status transitions. The returned
	// function unregisters it.
	OnStatusChange(cb func(models.SyncStatus)) (unsubscribe func())
	// OnConflict registers cb for newly detected conflicts.
	OnConflict(cb func(models.ConflictRecord)) (unsubscribe func())
	// OnModuleData registers cb for documents adopted from the remote store
	// or chosen in a conflict resolution.
	OnModuleData(cb func(module string, payload json.RawMessage)) (unsubscribe func())

	// Shutdown stops all timers, waits for an in-flight drain, runs a final
	// drain when possible and persists the queue. The orchestrator cannot
	// be used afterwards.
	Shutdown(ctx context.Context) error
}

// MetricsRecorder receives orchestrator activity. Implemented by
// metrics.SyncCollector.
type MetricsRecorder interface {
	RecordEnqueued(kind models.OperationKind)
	RecordCompleted(kind models.OperationKind)
	RecordRetry(kind models.OperationKind, errKind classifier.ErrorKind)
	RecordFailed(kind models.OperationKind, errKind classifier.ErrorKind)
	RecordConflict(module string)
	ObserveDrain(d time.Duration)
	SetStatus(status models.SyncStatus)
}

// SyncScheduler runs the recurring drain and poll passes of an orchestrator.
type SyncScheduler interface {
	// Start stops any previous schedule and starts a new one bound to ctx.
	Start(ctx context.Context, drainEvery, pollEvery time.Duration) error
	// Stop halts the schedule and waits for a running pass to finish.
	Stop()
}
