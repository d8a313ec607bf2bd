// Package http implements the read-only diagnostics endpoint of the client.
//
// It exposes the Prometheus metrics of the sync engine, the aggregate sync
// status, unresolved conflicts and the operation queue as JSON. Requests are
// traced and access-logged before reaching the handlers.
package http
