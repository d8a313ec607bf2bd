// Package server runs the local diagnostics HTTP server of the client.
//
// The server is optional: it is started only when a listen address is
// configured and is shut down gracefully together with the client runtime.
package server
