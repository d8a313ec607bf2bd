package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/go-chi/chi/v5"
)

// LoopbackSignIn completes an interactive sign-in with p. It listens on the
// host of the configured redirect URL, hands the consent page URL to open
// and waits until the browser is redirected back with the authorization
// code, or ctx ends.
func LoopbackSignIn(ctx context.Context, p *OAuthProvider, open func(authURL string) error, log *logger.Logger) error {
	redirect, err := url.Parse(p.cfg.RedirectURL)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("invalid redirect url %q", p.cfg.RedirectURL)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("listen for oauth callback: %w", err)
	}

	state, err := newState()
	if err != nil {
		_ = listener.Close()
		return err
	}

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	path := redirect.Path
	if path == "" {
		path = "/"
	}
	router := chi.NewRouter()
	router.Get(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "sign-in was declined", http.StatusBadRequest)
			sendOnce(errs, fmt.Errorf("authorization failed: %s", q.Get("error")))
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			sendOnce(errs, ErrStateMismatch)
		default:
			_, _ = w.Write([]byte("Signed in. You can close this window."))
			sendOnce(codes, q.Get("code"))
		}
	})

	srv := &http.Server{Handler: router}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendOnce(errs, err)
		}
	}()
	defer func() { _ = srv.Close() }()

	authURL := p.AuthCodeURL(state)
	log.Info().Str("func", "LoopbackSignIn").Str("url", authURL).Msg("waiting for oauth consent")
	if err := open(authURL); err != nil {
		return fmt.Errorf("open consent page: %w", err)
	}

	select {
	case code := <-codes:
		return p.SignIn(ctx, code)
	case err := <-errs:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendOnce[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
