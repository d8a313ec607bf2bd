package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// scraped every few seconds, kept out of the access log
	router.Method("GET", "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	router.Get("/healthz", h.healthz)

	router.Group(func(r chi.Router) {
		r.Use(h.withTraceID, h.withLogging)

		r.Get("/api/version", h.getVersion)
		r.Get("/api/sync/status", h.getStatus)
		r.Get("/api/sync/conflicts", h.getConflicts)
		r.Get("/api/sync/operations", h.getOperations)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
