// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/life-sync/models"
)

func (o *syncOrchestrator) SaveModule(ctx context.Context, module string, payload json.RawMessage) error {
	if err := validateOperation(models.OperationUpload, module, payload); err != nil {
		return err
	}
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	rec := models.ModuleRecord{ModuleData: bytes.Clone(payload), ModuleTimestamp: o.now().UTC()}
	if err := o.repo.SaveModule(ctx, module, rec); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("save module %s: %w", module, err)
	}
	o.noteLocalEditLocked(module, payload, rec.ModuleTimestamp)

	o.enqueueLocked(models.OperationUpload, module, payload, 0)
	if authenticated {
		o.scheduleDrainLocked(o.cfg.EnqueueDelay)
	}
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	return nil
}

func (o *syncOrchestrator) LoadModule(ctx context.Context, module string) (models.ModuleRecord, bool, error) {
	if module == "" {
		return models.ModuleRecord{}, false, ErrEmptyModule
	}
	return o.repo.LoadModule(ctx, module)
}

func (o *syncOrchestrator) DeleteModule(ctx context.Context, module string) error {
	if module == "" {
		return ErrEmptyModule
	}
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	if err := o.repo.RemoveModule(ctx, module); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("remove module %s: %w", module, err)
	}
	for _, c := range o.conflicts {
		if c.Module == module {
			c.Resolved = true
		}
	}
	o.dropPendingLocked(module, models.OperationUpload)

	o.enqueueLocked(models.OperationDelete, module, nil, 0)
	if authenticated {
		o.scheduleDrainLocked(o.cfg.EnqueueDelay)
	}
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	o.logger.Info().Str("func", "syncOrchestrator.DeleteModule").Str("module", module).Msg("module deleted locally")
	return nil
}

func (o *syncOrchestrator) ResolveConflict(ctx context.Context, conflictID string, keepLocal bool) error {
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	idx := slices.IndexFunc(o.conflicts, func(c *models.ConflictRecord) bool { return c.ID == conflictID })
	if idx < 0 {
		o.mu.Unlock()
		return ErrConflictNotFound
	}
	c := o.conflicts[idx]
	if c.Resolved {
		o.mu.Unlock()
		return ErrConflictResolved
	}

	chosen := c.RemotePayload
	if keepLocal {
		chosen = c.LocalPayload
	}

	// the chosen document supersedes the remote version it was compared with
	rec := models.ModuleRecord{ModuleData: bytes.Clone(chosen), ModuleTimestamp: c.RemoteWrittenAt}
	if err := o.repo.SaveModule(ctx, c.Module, rec); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("save resolved module %s: %w", c.Module, err)
	}
	c.Resolved = true
	o.dropPendingLocked(c.Module, models.OperationUpload)

	if keepLocal {
		o.enqueueLocked(models.OperationUpload, c.Module, chosen, 0)
		if authenticated {
			o.scheduleDrainLocked(o.cfg.EnqueueDelay)
		}
	} else {
		o.documents = append(o.documents, moduleDocument{module: c.Module, payload: bytes.Clone(chosen)})
	}
	o.pruneResolvedLocked()

	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	o.logger.Info().
		Str("func", "syncOrchestrator.ResolveConflict").
		Str("conflict_id", conflictID).
		Str("module", c.Module).
		Bool("keep_local", keepLocal).
		Msg("conflict resolved")
	return nil
}

func (o *syncOrchestrator) SetOnline(online bool) {
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if o.online == online {
		o.mu.Unlock()
		return
	}
	o.online = online
	if !o.loaded || o.closed {
		o.mu.Unlock()
		return
	}
	if online && authenticated {
		o.scheduleDrainLocked(0)
	}
	n := o.transitionLocked(o.ctx)
	o.mu.Unlock()
	o.emit(n)

	o.logger.Info().Str("func", "syncOrchestrator.SetOnline").Bool("online", online).Msg("connectivity changed")
}

func (o *syncOrchestrator) RetryFailed(ctx context.Context, id string) error {
	authenticated := o.creds.IsAuthenticated()

	o.mu.Lock()
	if err := o.usableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	op := o.findOperationLocked(id)
	if op == nil {
		o.mu.Unlock()
		return ErrOperationNotFound
	}
	if op.State != models.OperationFailed {
		o.mu.Unlock()
		return ErrOperationNotFailed
	}

	if op.Kind == models.OperationUpload {
		rec, ok, err := o.repo.LoadModule(ctx, op.Module)
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("load module %s: %w", op.Module, err)
		}
		if ok && len(rec.ModuleData) > 0 {
			op.Payload = bytes.Clone(rec.ModuleData)
		}
	}

	op.State = models.OperationPending
	op.RetryCount = 0
	op.NextAttemptAt = nil
	op.LastError = ""
	op.LastErrorKind = ""
	op.CreatedAt = o.now().UTC()

	// retried operations queue behind everything enqueued meanwhile
	o.removeOperationLocked(id)
	o.ops = append(o.ops, op)

	if authenticated {
		o.scheduleDrainLocked(o.cfg.EnqueueDelay)
	}
	n := o.transitionLocked(ctx)
	o.mu.Unlock()
	o.emit(n)

	o.logger.Info().Str("func", "syncOrchestrator.RetryFailed").Str("op_id", id).Msg("failed operation requeued")
	return nil
}

// dropPendingLocked removes queued, not yet running operations of kind for
// module.
func (o *syncOrchestrator) dropPendingLocked(module string, kind models.OperationKind) {
	o.ops = slices.DeleteFunc(o.ops, func(op *models.SyncOperation) bool {
		return op.Module == module && op.Kind == kind && op.State == models.OperationPending
	})
}

func (o *syncOrchestrator) pruneResolvedLocked() {
	var resolved int
	for _, c := range o.conflicts {
		if c.Resolved {
			resolved++
		}
	}
	excess := resolved - o.cfg.ResolvedToRetain
	if excess <= 0 {
		return
	}

	// conflicts are kept in detection order; the oldest resolved ones go first
	o.conflicts = slices.DeleteFunc(o.conflicts, func(c *models.ConflictRecord) bool {
		if c.Resolved && excess > 0 {
			excess--
			return true
		}
		return false
	})
}
