// Package workers provides the background workers of the client runtime and
// a Workers aggregate that runs them for the lifetime of a context.
//
// A worker feeds the sync engine from outside: the module watcher turns
// edits of module files into local saves, the connectivity probe reports
// whether the remote store is reachable.
package workers

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/life-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is canceled or the worker cannot continue.
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// ModuleStore receives local module edits. Implemented by the sync
// orchestrator.
type ModuleStore interface {
	SaveModule(ctx context.Context, module string, payload json.RawMessage) error
	LoadModule(ctx context.Context, module string) (models.ModuleRecord, bool, error)
}

// OnlineSetter receives connectivity changes. Implemented by the sync
// orchestrator.
type OnlineSetter interface {
	SetOnline(online bool)
}
