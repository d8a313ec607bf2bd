package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/life-sync/internal/logger"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers groups ws; nil workers are skipped.
func NewWorkers(log *logger.Logger, ws ...Worker) *Workers {
	w := &Workers{logger: log}
	for _, worker := range ws {
		if worker != nil {
			w.workers = append(w.workers, worker)
		}
	}
	return w
}

// Run starts every worker in its own goroutine and blocks until all of them
// returned. A failing worker is logged and does not stop the others.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			if err := worker.Run(ctx); err != nil && w.logger != nil {
				w.logger.Err(err).Str("func", "Workers.Run").Msgf("worker %T stopped", worker)
			}
		})
	}
	wg.Wait()
}

// Len is the number of grouped workers.
func (w *Workers) Len() int {
	return len(w.workers)
}
