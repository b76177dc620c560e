package fetcher

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per host.
type RateLimiter struct {
	rpm     int
	burst   int
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
}

func NewRateLimiter(rpm, burst int) *RateLimiter {
	if rpm <= 0 {
		rpm = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rpm:     rpm,
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may be hit again or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	return rl.limiterFor(host).Wait(ctx)
}

func (rl *RateLimiter) limiterFor(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.buckets[host]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(float64(rl.rpm)/60), rl.burst)
		rl.buckets[host] = limiter
	}
	return limiter
}
