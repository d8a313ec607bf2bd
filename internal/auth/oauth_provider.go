// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/life-sync/internal/config"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/store"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/drive/v3"
)

// defaultRefreshBuffer is how long before expiry a token is refreshed.
const defaultRefreshBuffer = time.Minute

var _ CredentialProvider = (*OAuthProvider)(nil)

// OAuthProvider implements [CredentialProvider] with the OAuth 2.0
// authorization code flow. The token is persisted in the local store under
// [store.KeyAuthToken] so a restart does not require signing in again.
type OAuthProvider struct {
	cfg *oauth2.Config
	kv  store.LocalStore

	mu       sync.RWMutex
	token    *oauth2.Token
	verifier string

	refreshBuffer time.Duration
	now           func() time.Time

	logger *logger.Logger
}

// OAuthOption customizes an [OAuthProvider].
type OAuthOption func(*OAuthProvider)

// WithEndpoint replaces the Google endpoint.
func WithEndpoint(ep oauth2.Endpoint) OAuthOption {
	return func(p *OAuthProvider) { p.cfg.Endpoint = ep }
}

// WithScopes replaces the requested scopes.
func WithScopes(scopes ...string) OAuthOption {
	return func(p *OAuthProvider) { p.cfg.Scopes = scopes }
}

// NewOAuthProvider builds the provider for the configured Google OAuth client
// and loads a previously stored token, if any. The only requested scope is
// access to the application data folder of Drive.
func NewOAuthProvider(ctx context.Context, cfg config.OAuth, kv store.LocalStore, log *logger.Logger, opts ...OAuthOption) (*OAuthProvider, error) {
	p := &OAuthProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{drive.DriveAppdataScope},
		},
		kv:            kv,
		refreshBuffer: defaultRefreshBuffer,
		now:           time.Now,
		logger:        log,
	}
	for _, opt := range opts {
		opt(p)
	}

	token, err := p.loadToken(ctx)
	if err != nil {
		return nil, err
	}
	p.token = token

	return p, nil
}

// AuthCodeURL returns the consent page URL for a new sign-in. A fresh PKCE
// verifier is generated for every call; only the last one can complete
// [OAuthProvider.SignIn].
func (p *OAuthProvider) AuthCodeURL(state string) string {
	verifier := oauth2.GenerateVerifier()

	p.mu.Lock()
	p.verifier = verifier
	p.mu.Unlock()

	return p.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)
}

// SignIn exchanges the authorization code for a token and stores it.
func (p *OAuthProvider) SignIn(ctx context.Context, code string) error {
	if code == "" {
		return ErrEmptyAuthCode
	}

	p.mu.RLock()
	verifier := p.verifier
	p.mu.RUnlock()
	if verifier == "" {
		return ErrSignInNotStarted
	}

	token, err := p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := p.saveToken(ctx, token); err != nil {
		return err
	}

	p.mu.Lock()
	p.token = token
	p.verifier = ""
	p.mu.Unlock()

	p.logger.Info().Str("func", "OAuthProvider.SignIn").Time("expiry", token.Expiry).Msg("signed in")
	return nil
}

// SignOut forgets the token in memory and in the local store.
func (p *OAuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.token = nil
	p.verifier = ""
	p.mu.Unlock()

	if err := p.kv.Remove(ctx, store.KeyAuthToken); err != nil {
		return fmt.Errorf("remove stored token: %w", err)
	}

	p.logger.Info().Str("func", "OAuthProvider.SignOut").Msg("signed out")
	return nil
}

// IsAuthenticated reports whether a token exists that is still valid or can
// be refreshed.
func (p *OAuthProvider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.token == nil {
		return false
	}
	return p.token.RefreshToken != "" || p.fresh(p.token)
}

// AccessToken returns the current access token, refreshing it first when it
// expires within the refresh buffer.
func (p *OAuthProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()

	if token == nil {
		return "", ErrNotSignedIn
	}
	if p.fresh(token) {
		return token.AccessToken, nil
	}

	return p.RefreshAccessToken(ctx)
}

// RefreshAccessToken obtains a new access token with the stored refresh
// token and persists it.
func (p *OAuthProvider) RefreshAccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == nil {
		return "", ErrNotSignedIn
	}
	if p.token.RefreshToken == "" {
		return "", ErrTokenExpired
	}

	// an empty access token forces the token source to hit the endpoint
	stale := &oauth2.Token{RefreshToken: p.token.RefreshToken}
	refreshed, err := p.cfg.TokenSource(ctx, stale).Token()
	if err != nil {
		p.logger.Err(err).Str("func", "OAuthProvider.RefreshAccessToken").Msg("token refresh failed")
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = p.token.RefreshToken
	}

	if err := p.saveToken(ctx, refreshed); err != nil {
		return "", err
	}
	p.token = refreshed

	p.logger.Debug().Str("func", "OAuthProvider.RefreshAccessToken").Time("expiry", refreshed.Expiry).Msg("access token refreshed")
	return refreshed.AccessToken, nil
}

func (p *OAuthProvider) fresh(token *oauth2.Token) bool {
	if token.AccessToken == "" {
		return false
	}
	if token.Expiry.IsZero() {
		return true
	}
	return p.now().Add(p.refreshBuffer).Before(token.Expiry)
}

func (p *OAuthProvider) loadToken(ctx context.Context) (*oauth2.Token, error) {
	raw, err := p.kv.Get(ctx, store.KeyAuthToken)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stored token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		// a damaged token only forces a new sign-in
		p.logger.Warn().Err(err).Str("func", "OAuthProvider.loadToken").Msg("stored token is unreadable, ignoring")
		return nil, nil
	}
	return &token, nil
}

func (p *OAuthProvider) saveToken(ctx context.Context, token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := p.kv.Set(ctx, store.KeyAuthToken, raw); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
