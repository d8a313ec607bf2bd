package adapter

import "errors"

// Sentinel errors returned by remote store backends. Transport errors are
// wrapped so that the original failure stays in the chain.
var (
	ErrBadRequest        = errors.New("remote store rejected the request")
	ErrUnauthorized      = errors.New("remote store: unauthorized")
	ErrForbidden         = errors.New("remote store: forbidden")
	ErrNotFound          = errors.New("remote store: document not found")
	ErrQuotaExceeded     = errors.New("remote store: quota exceeded")
	ErrRateLimited       = errors.New("remote store: rate limit exceeded")
	ErrServerUnavailable = errors.New("remote store: server unavailable")

	// ErrCorruptDocument is returned when a downloaded version fails its
	// integrity check or is not valid JSON.
	ErrCorruptDocument = errors.New("remote document is corrupt")

	// ErrInvalidPayload is returned by Upload for payloads that are not JSON.
	ErrInvalidPayload = errors.New("module payload is not valid JSON")

	// ErrNotAuthenticated is returned when no access token is available.
	ErrNotAuthenticated = errors.New("no access token available")
)
