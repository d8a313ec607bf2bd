package service

import (
	"context"
	"time"

	"github.com/MKhiriev/life-sync/internal/classifier"
	"github.com/MKhiriev/life-sync/models"
)

type pollTarget struct {
	module string
	since  time.Time
}

func (o *syncOrchestrator) Poll(ctx context.Context) {
	if !o.creds.IsAuthenticated() {
		return
	}

	o.mu.Lock()
	if !o.loaded || o.closing || !o.online {
		o.mu.Unlock()
		return
	}
	targets, err := o.pollTargetsLocked(ctx)
	o.mu.Unlock()
	if err != nil {
		o.logger.Err(err).Str("func", "syncOrchestrator.Poll").Msg("collecting modules to poll failed")
		return
	}

	var found int
	for _, t := range targets {
		if ctx.Err() != nil {
			return
		}

		changed, err := o.remote.HasRemoteChanges(ctx, t.module, t.since)
		if err != nil {
			cls := classifier.Classify(err)
			log := o.logger.WithModule(t.module)
			switch cls.Kind {
			case classifier.Auth:
				log.Warn().Err(err).Msg("poll rejected, refreshing credentials")
				o.refreshCredentials(ctx)
				return
			case classifier.Network:
				log.Debug().Err(err).Msg("poll aborted: remote unreachable")
				return
			default:
				log.Warn().Err(err).Str("error_kind", string(cls.Kind)).Msg("checking remote changes failed")
				continue
			}
		}
		if !changed {
			continue
		}

		if _, err := o.Enqueue(ctx, models.OperationDownload, t.module, nil, 0); err != nil {
			o.logger.Err(err).Str("func", "syncOrchestrator.Poll").Str("module", t.module).Msg("enqueueing download failed")
			return
		}
		found++
	}

	o.logger.Debug().
		Str("func", "syncOrchestrator.Poll").
		Int("modules", len(targets)).
		Int("changed", found).
		Msg("poll finished")
}

// pollTargetsLocked lists the known modules worth polling. Modules with an
// unresolved conflict or a queued Download are skipped.
func (o *syncOrchestrator) pollTargetsLocked(ctx context.Context) ([]pollTarget, error) {
	busy := make(map[string]bool)
	for _, op := range o.ops {
		if op.Kind == models.OperationDownload && !op.State.Terminal() {
			busy[op.Module] = true
		}
	}

	var targets []pollTarget
	for _, module := range o.knownModulesLocked() {
		if busy[module] || o.unresolvedConflictLocked(module) != nil {
			continue
		}

		rec, ok, err := o.repo.LoadModule(ctx, module)
		if err != nil {
			return nil, err
		}
		t := pollTarget{module: module}
		if ok {
			t.since = rec.ModuleTimestamp
		}
		targets = append(targets, t)
	}
	return targets, nil
}
