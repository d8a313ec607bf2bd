package auth

import "errors"

var (
	// ErrNotSignedIn is returned when no credentials are stored.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrTokenExpired is returned when the stored token expired and cannot
	// be refreshed.
	ErrTokenExpired = errors.New("access token expired")

	// ErrRefreshUnsupported is returned by providers whose tokens cannot be
	// refreshed by the client.
	ErrRefreshUnsupported = errors.New("token refresh is not supported")

	// ErrEmptyAuthCode is returned by SignIn for an empty code.
	ErrEmptyAuthCode = errors.New("empty authorization code")

	// ErrSignInNotStarted is returned by SignIn when no authorization URL was
	// issued, so there is no PKCE verifier to complete the exchange with.
	ErrSignInNotStarted = errors.New("sign-in was not started")

	// ErrStateMismatch is returned by the loopback callback when the state
	// parameter does not match the one sent with the authorization URL.
	ErrStateMismatch = errors.New("oauth state mismatch")
)
