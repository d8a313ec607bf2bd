package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/life-sync/internal/classifier"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
	"github.com/rs/zerolog"
)

// drainStep tells the drain loop what to do with a queued operation.
type drainStep int

const (
	stepRun drainStep = iota
	stepSkip
	stepStop
)

func (o *syncOrchestrator) ForceSync(ctx context.Context) error {
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if !o.online {
		o.mu.Unlock()
		o.logger.Info().Str("func", "syncOrchestrator.ForceSync").Msg("force sync ignored: offline")
		return ErrOffline
	}
	if !authenticated {
		o.mu.Unlock()
		o.logger.Info().Str("func", "syncOrchestrator.ForceSync").Msg("force sync ignored: not authenticated")
		return ErrNotAuthenticated
	}
	if o.draining {
		o.mu.Unlock()
		o.logger.Debug().Str("func", "syncOrchestrator.ForceSync").Msg("drain already in flight")
		return nil
	}
	for _, op := range o.ops {
		if op.State == models.OperationPending {
			op.NextAttemptAt = nil
		}
	}
	o.mu.Unlock()

	o.Drain(ctx)
	return nil
}

func (o *syncOrchestrator) Drain(ctx context.Context) {
	o.drain(ctx, false)
}

// drain runs one pass over the Pending operations present when it starts.
// final is set only by Shutdown, which drains after closing the orchestrator
// to timers.
func (o *syncOrchestrator) drain(ctx context.Context, final bool) {
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if !o.loaded || o.closed || o.draining || (o.closing && !final) || !o.online || !authenticated {
		o.mu.Unlock()
		return
	}
	o.draining = true
	o.drains.Add(1)
	defer o.drains.Done()

	// Shutdown aborts the remote call of a pass it stopped waiting for
	if !final {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		defer context.AfterFunc(o.ctx, cancel)()
	}

	batch := make([]string, 0, len(o.ops))
	for _, op := range o.ops {
		if op.State == models.OperationPending {
			batch = append(batch, op.ID)
		}
	}
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	started := time.Now()
	o.logger.Debug().Str("func", "syncOrchestrator.drain").Int("batch", len(batch)).Msg("drain started")

	// modules whose earlier operation is still waiting; later operations of
	// the same module must not overtake it
	blocked := make(map[string]bool)
	for _, id := range batch {
		if ctx.Err() != nil {
			break
		}

		op, step := o.beginOperation(ctx, id, blocked, final)
		if step == stepStop {
			break
		}
		if step == stepSkip {
			continue
		}

		err := o.execute(ctx, op)
		if stop := o.finishOperation(ctx, op, err, blocked); stop {
			break
		}
	}

	o.mu.Lock()
	o.draining = false
	now := o.now().UTC()
	o.lastSyncAt = &now
	n = o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	elapsed := time.Since(started)
	o.metrics.ObserveDrain(elapsed)
	o.logger.Debug().Str("func", "syncOrchestrator.drain").Dur("elapsed", elapsed).Msg("drain finished")
}

// beginOperation marks the operation Processing. A pass stops when the
// orchestrator went offline or, unless it is the final pass, started closing.
func (o *syncOrchestrator) beginOperation(ctx context.Context, id string, blocked map[string]bool, final bool) (models.SyncOperation, drainStep) {
	o.mu.Lock()
	if !o.online || (o.closing && !final) {
		o.mu.Unlock()
		return models.SyncOperation{}, stepStop
	}

	op := o.findOperationLocked(id)
	if op == nil || op.State != models.OperationPending || blocked[op.Module] {
		o.mu.Unlock()
		return models.SyncOperation{}, stepSkip
	}
	if !op.ReadyAt(o.now()) {
		blocked[op.Module] = true
		o.mu.Unlock()
		return models.SyncOperation{}, stepSkip
	}
	// local edits wait until the user settled the conflict of their module
	if op.Kind == models.OperationUpload && o.unresolvedConflictLocked(op.Module) != nil {
		blocked[op.Module] = true
		o.mu.Unlock()
		return models.SyncOperation{}, stepSkip
	}

	op.State = models.OperationProcessing
	snapshot := cloneOperation(op)
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	return snapshot, stepRun
}

func (o *syncOrchestrator) execute(ctx context.Context, op models.SyncOperation) error {
	ctx = utils.WithOperationID(ctx, op.ID)

	switch op.Kind {
	case models.OperationUpload:
		meta, err := o.remote.Upload(ctx, op.Module, op.Payload)
		if err != nil {
			return err
		}
		o.recordUpload(ctx, op, meta)
		return nil
	case models.OperationDownload:
		return o.download(ctx, op)
	case models.OperationDelete:
		return o.remote.DeleteModule(ctx, op.Module)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperationKind, op.Kind)
	}
}

// recordUpload advances the local module timestamp to the uploaded version
// so the device never reports its own upload as a newer remote change.
func (o *syncOrchestrator) recordUpload(ctx context.Context, op models.SyncOperation, meta models.RemoteDocumentMetadata) {
	o.mu.Lock()
	defer o.mu.Unlock()

	log := o.operationLogger(op)
	rec, ok, err := o.repo.LoadModule(ctx, op.Module)
	if err != nil {
		log.Warn().Err(err).Msg("loading module record after upload failed")
		return
	}
	if !ok {
		rec = models.ModuleRecord{ModuleData: bytes.Clone(op.Payload)}
	}
	if !rec.ModuleTimestamp.Before(meta.WrittenAt) {
		return
	}

	rec.ModuleTimestamp = meta.WrittenAt
	if err := o.repo.SaveModule(ctx, op.Module, rec); err != nil {
		log.Warn().Err(err).Msg("advancing module timestamp after upload failed")
	}
}

func (o *syncOrchestrator) download(ctx context.Context, op models.SyncOperation) error {
	log := o.operationLogger(op)

	doc, err := o.remote.DownloadLatest(ctx, op.Module)
	if err != nil && classifier.Classify(err).Kind == classifier.Corruption {
		log.Warn().Err(err).Msg("latest remote version is corrupt, trying older versions")
		doc, err = o.downloadFallback(ctx, op, err)
	}
	if err != nil {
		return err
	}
	if doc == nil {
		log.Debug().Msg("module has no remote version")
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.applyRemoteLocked(ctx, op.Module, doc)
}

// downloadFallback walks the older versions of a module, newest first, and
// returns the first one that verifies. cause is returned when none does.
func (o *syncOrchestrator) downloadFallback(ctx context.Context, op models.SyncOperation, cause error) (*models.RemoteDocument, error) {
	versions, err := o.remote.ListVersions(ctx, op.Module)
	if err != nil {
		return nil, err
	}

	log := o.operationLogger(op)
	for i, v := range versions {
		if i == 0 {
			continue
		}
		doc, err := o.remote.DownloadVersion(ctx, v)
		if err == nil {
			log.Warn().Str("version_id", v.ID).Time("written_at", v.WrittenAt).Msg("fell back to older remote version")
			return doc, nil
		}
		if classifier.Classify(err).Kind != classifier.Corruption {
			return nil, err
		}
		log.Warn().Err(err).Str("version_id", v.ID).Msg("older remote version is corrupt too")
	}

	return nil, cause
}

// applyRemoteLocked decides what a downloaded document means for the local
// record: discard when not newer, adopt when there is no local timestamp,
// otherwise raise a conflict. Local data is never overwritten here.
func (o *syncOrchestrator) applyRemoteLocked(ctx context.Context, module string, doc *models.RemoteDocument) error {
	log := o.logger.WithModule(module)
	remoteAt := doc.Metadata.WrittenAt

	rec, ok, err := o.repo.LoadModule(ctx, module)
	if err != nil {
		return fmt.Errorf("load local module %s: %w", module, err)
	}

	if ok && rec.HasTimestamp() && !remoteAt.After(rec.ModuleTimestamp) {
		log.Debug().Time("remote_written_at", remoteAt).Msg("remote version is not newer, discarded")
		return nil
	}

	if !ok || !rec.HasTimestamp() {
		adopted := models.ModuleRecord{ModuleData: bytes.Clone(doc.Payload), ModuleTimestamp: remoteAt}
		if err := o.repo.SaveModule(ctx, module, adopted); err != nil {
			return fmt.Errorf("save adopted module %s: %w", module, err)
		}
		o.documents = append(o.documents, moduleDocument{module: module, payload: bytes.Clone(doc.Payload)})
		log.Info().Time("remote_written_at", remoteAt).Str("device_id", doc.Metadata.DeviceID).Msg("remote version adopted")
		return nil
	}

	if sameDocument(rec.ModuleData, doc.Payload) {
		rec.ModuleTimestamp = remoteAt
		if err := o.repo.SaveModule(ctx, module, rec); err != nil {
			return fmt.Errorf("save module %s: %w", module, err)
		}
		log.Debug().Msg("remote version matches local document")
		return nil
	}

	o.recordConflictLocked(module, rec, doc)
	return nil
}

func (o *syncOrchestrator) recordConflictLocked(module string, local models.ModuleRecord, doc *models.RemoteDocument) {
	now := o.now().UTC()

	c := o.unresolvedConflictLocked(module)
	if c == nil {
		c = &models.ConflictRecord{
			ID:             o.ids.Generate(),
			Module:         module,
			LocalPayload:   bytes.Clone(local.ModuleData),
			LocalTimestamp: local.ModuleTimestamp,
		}
		o.conflicts = append(o.conflicts, c)
	}
	c.RemotePayload = bytes.Clone(doc.Payload)
	c.RemoteWrittenAt = doc.Metadata.WrittenAt
	c.RemoteDeviceID = doc.Metadata.DeviceID
	c.DetectedAt = now

	o.newConflicts = append(o.newConflicts, cloneConflict(c))
	o.metrics.RecordConflict(module)

	o.logger.Info().
		Str("func", "syncOrchestrator.recordConflict").
		Str("module", module).
		Str("conflict_id", c.ID).
		Time("local_timestamp", c.LocalTimestamp).
		Time("remote_written_at", c.RemoteWrittenAt).
		Str("remote_device_id", c.RemoteDeviceID).
		Msg("conflict detected")
}

// finishOperation folds the result of one attempt into the queue and reports
// whether the drain pass must stop.
func (o *syncOrchestrator) finishOperation(ctx context.Context, op models.SyncOperation, err error, blocked map[string]bool) bool {
	var refresh, stop bool
	log := o.operationLogger(op)

	o.mu.Lock()
	cur := o.findOperationLocked(op.ID)
	if cur == nil {
		o.mu.Unlock()
		return false
	}

	switch {
	case err == nil:
		o.removeOperationLocked(op.ID)
		if o.errorCount > 0 {
			o.errorCount--
		}
		o.metrics.RecordCompleted(op.Kind)
		log.Debug().Msg("operation completed")

	case ctx.Err() != nil:
		// interrupted by shutdown: the attempt does not count
		cur.State = models.OperationPending
		blocked[op.Module] = true
		stop = true
		log.Debug().Err(err).Msg("operation interrupted, returned to queue")

	default:
		// an operation adds to errorCount once, at the first failed attempt
		// since it was enqueued or requeued
		if cur.LastError == "" {
			o.errorCount++
		}
		cls := classifier.Classify(err)
		cur.LastError = err.Error()
		cur.LastErrorKind = string(cls.Kind)

		if cls.Retryable && cur.RetryCount < min(cur.MaxRetries, cls.MaxRetries) {
			cur.RetryCount++
			delay := o.backoff(cur.RetryCount, cls.Kind)
			next := o.now().Add(delay).UTC()
			cur.NextAttemptAt = &next
			cur.State = models.OperationPending
			blocked[op.Module] = true
			o.scheduleRetryLocked(delay)
			o.metrics.RecordRetry(op.Kind, cls.Kind)

			log.Warn().Err(err).
				Str("error_kind", string(cls.Kind)).
				Int("retry_count", cur.RetryCount).
				Dur("backoff", delay).
				Msg("operation failed, retry scheduled")
		} else {
			cur.State = models.OperationFailed
			cur.NextAttemptAt = nil
			o.metrics.RecordFailed(op.Kind, cls.Kind)

			log.Error().Err(err).
				Str("error_kind", string(cls.Kind)).
				Int("retry_count", cur.RetryCount).
				Msg("operation failed permanently")
		}

		if cls.Kind == classifier.Auth {
			// the remaining operations would be rejected with the same token
			refresh, stop = true, true
		}
	}

	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	if refresh {
		o.refreshCredentials(ctx)
	}
	return stop
}

func (o *syncOrchestrator) operationLogger(op models.SyncOperation) zerolog.Logger {
	return o.logger.With().
		Str("op_id", op.ID).
		Str("kind", string(op.Kind)).
		Str("module", op.Module).
		Logger()
}

// scheduleDrainLocked arranges a drain after delay unless one is already
// scheduled.
func (o *syncOrchestrator) scheduleDrainLocked(delay time.Duration) {
	if o.closing || !o.online || o.drainPending {
		return
	}
	o.drainPending = true
	o.drainTimer = time.AfterFunc(delay, func() {
		o.mu.Lock()
		o.drainPending = false
		o.drainTimer = nil
		o.mu.Unlock()

		o.Drain(o.ctx)
	})
}

// scheduleRetryLocked arranges a drain once the earliest backoff elapsed.
func (o *syncOrchestrator) scheduleRetryLocked(delay time.Duration) {
	if o.closing {
		return
	}
	at := time.Now().Add(delay)
	if o.retryTimer != nil && !at.Before(o.retryAt) {
		return
	}
	if o.retryTimer != nil {
		o.retryTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		o.mu.Lock()
		if o.retryTimer == timer {
			o.retryTimer = nil
			o.retryAt = time.Time{}
		}
		o.mu.Unlock()

		o.Drain(o.ctx)
	})
	o.retryTimer = timer
	o.retryAt = at
}

func (o *syncOrchestrator) stopTimersLocked() {
	if o.drainTimer != nil {
		o.drainTimer.Stop()
		o.drainTimer = nil
	}
	o.drainPending = false
	if o.retryTimer != nil {
		o.retryTimer.Stop()
		o.retryTimer = nil
		o.retryAt = time.Time{}
	}
}

// sameDocument compares two JSON documents ignoring insignificant whitespace.
func sameDocument(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
