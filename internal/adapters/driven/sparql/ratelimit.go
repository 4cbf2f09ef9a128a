package sparql

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRetryAfter is the backoff after a 429 without a usable Retry-After.
const defaultRetryAfter = 30 * time.Second

// rateLimiter throttles requests to one endpoint with a token bucket and
// honours the backoff an overloaded endpoint asks for.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// newRateLimiter returns a limiter allowing rps requests per second.
// A non-positive rps never throttles.
func newRateLimiter(rps float64) *rateLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &rateLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until a request may be sent.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
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

// Backoff delays further requests by the Retry-After header value, given
// in seconds.
func (r *rateLimiter) Backoff(retryAfter string) {
	wait := defaultRetryAfter
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		wait = time.Duration(seconds) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(wait)
}
