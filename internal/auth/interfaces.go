// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth provides the credential providers used by the sync client.
//
// [OAuthProvider] runs the Google OAuth 2.0 authorization code flow with PKCE
// and keeps the resulting token in the local store, refreshing it on demand.
// [StaticTokenProvider] serves a preconfigured bearer token to the REST
// document backend. [NewTokenSource] adapts any [CredentialProvider] to an
// oauth2.TokenSource for Google API clients.
package auth

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_provider_mock.go -package=mock

// CredentialProvider owns the access token lifecycle. The sync orchestrator
// only asks whether the user is signed in and requests a refresh after a
// call was rejected as unauthorized.
type CredentialProvider interface {
	// IsAuthenticated reports whether a usable or refreshable token exists.
	IsAuthenticated() bool
	// AccessToken returns a valid access token, refreshing it if it is
	// about to expire.
	AccessToken(ctx context.Context) (string, error)
	// RefreshAccessToken obtains a new access token unconditionally.
	RefreshAccessToken(ctx context.Context) (string, error)
	// SignIn completes authentication with the given authorization code
	// or token.
	SignIn(ctx context.Context, code string) error
	// SignOut forgets the stored credentials.
	SignOut(ctx context.Context) error
}
