package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts a [CredentialProvider] to oauth2.TokenSource so Google
// API clients draw tokens from the same provider the orchestrator refreshes.
type TokenSource struct {
	provider CredentialProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource over provider. ctx bounds
// token refreshes triggered by the source.
func NewTokenSource(ctx context.Context, provider CredentialProvider) oauth2.TokenSource {
	return &TokenSource{provider: provider, ctx: ctx}
}

// Token implements oauth2.TokenSource.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.AccessToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
