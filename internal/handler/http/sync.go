package http

import (
	"net/http"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
)

type conflictsResponse struct {
	Conflicts []models.ConflictRecord `json:"conflicts"`
}

type operationsResponse struct {
	Operations []models.SyncOperation `json:"operations"`
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.sync.Status())
}

func (h *Handler) getConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts := h.sync.PendingConflicts()
	if conflicts == nil {
		conflicts = []models.ConflictRecord{}
	}
	h.respond(w, r, conflictsResponse{Conflicts: conflicts})
}

func (h *Handler) getOperations(w http.ResponseWriter, r *http.Request) {
	ops := h.sync.Operations()
	if ops == nil {
		ops = []models.SyncOperation{}
	}
	h.respond(w, r, operationsResponse{Operations: ops})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, data any) {
	if _, err := utils.WriteJSON(w, data, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.respond").Msg("error writing response")
	}
}
