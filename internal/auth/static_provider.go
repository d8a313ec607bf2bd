package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/life-sync/internal/store"
	"github.com/MKhiriev/life-sync/internal/utils"
)

// expiryLeeway is the clock skew tolerated when checking a token's exp claim.
const expiryLeeway = 30 * time.Second

var _ CredentialProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves a bearer token issued out of band, e.g. by the
// self-hosted document service. The token cannot be refreshed; once its exp
// claim passes the user has to sign in with a new one.
type StaticTokenProvider struct {
	kv store.LocalStore

	mu    sync.RWMutex
	token string

	now func() time.Time
}

// NewStaticTokenProvider returns a provider seeded with token. An empty token
// falls back to the one stored by a previous [StaticTokenProvider.SignIn].
func NewStaticTokenProvider(ctx context.Context, token string, kv store.LocalStore) (*StaticTokenProvider, error) {
	p := &StaticTokenProvider{kv: kv, token: token, now: time.Now}
	if token != "" {
		return p, nil
	}

	raw, err := kv.Get(ctx, store.KeyAuthToken)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("load stored token: %w", err)
	default:
		p.token = string(raw)
	}
	return p, nil
}

func (p *StaticTokenProvider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token != "" && !utils.TokenExpired(p.token, p.now(), expiryLeeway)
}

func (p *StaticTokenProvider) AccessToken(_ context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.token == "" {
		return "", ErrNotSignedIn
	}
	if utils.TokenExpired(p.token, p.now(), expiryLeeway) {
		return "", ErrTokenExpired
	}
	return p.token, nil
}

func (p *StaticTokenProvider) RefreshAccessToken(_ context.Context) (string, error) {
	return "", ErrRefreshUnsupported
}

// SignIn replaces the token with code and stores it.
func (p *StaticTokenProvider) SignIn(ctx context.Context, code string) error {
	if code == "" {
		return ErrEmptyAuthCode
	}
	if err := p.kv.Set(ctx, store.KeyAuthToken, []byte(code)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	p.mu.Lock()
	p.token = code
	p.mu.Unlock()
	return nil
}

func (p *StaticTokenProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()

	return p.kv.Remove(ctx, store.KeyAuthToken)
}
