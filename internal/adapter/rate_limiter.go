package adapter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultRetryAfter = 30 * time.Second

// RateLimiter throttles remote calls with a token bucket and honours the
// back-off requested by the remote side after a rate limit response.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request may be made or ctx is done. It fails fast with
// [ErrRateLimited] when the requested back-off outlasts the ctx deadline.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		if deadline, ok := ctx.Deadline(); ok && retryAt.After(deadline) {
			return ErrRateLimited
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimit postpones further requests by retryAfter (30s when zero).
func (r *RateLimiter) RecordRateLimit(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if until := time.Now().Add(retryAfter); until.After(r.retryAt) {
		r.retryAt = until
	}
}
