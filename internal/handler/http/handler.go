package http

import (
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/models"
	"github.com/prometheus/client_golang/prometheus"
)

// SyncStateReader is the read side of the sync orchestrator served by the
// diagnostics endpoint.
type SyncStateReader interface {
	Status() models.SyncStatus
	PendingConflicts() []models.ConflictRecord
	Operations() []models.SyncOperation
}

type Handler struct {
	sync     SyncStateReader
	build    models.AppBuildInfo
	gatherer prometheus.Gatherer

	logger *logger.Logger
}

// NewHandler creates a diagnostics handler. A nil gatherer serves the
// default Prometheus registry.
func NewHandler(sync SyncStateReader, build models.AppBuildInfo, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	logger.Info().Msg("diagnostics handler created")
	return &Handler{
		sync:     sync,
		build:    build,
		gatherer: gatherer,
		logger:   logger,
	}
}
