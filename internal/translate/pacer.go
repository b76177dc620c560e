package translate

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer runs calls one after another: each call waits for a token from the
// per-minute quota, and every finished call is followed by a fixed pause.
type Pacer struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewPacer builds a Pacer. maxPerMinute <= 0 disables the quota.
func NewPacer(delay time.Duration, maxPerMinute int) *Pacer {
	limit := rate.Inf
	if maxPerMinute > 0 {
		limit = rate.Limit(float64(maxPerMinute) / 60)
	}
	return &Pacer{
		limiter: rate.NewLimiter(limit, 1),
		delay:   delay,
	}
}

// Do runs fn when the quota allows and then pauses. The returned error is
// only ever ctx's; fn reports its own outcome. If ctx ends before fn
// starts, fn is not run.
func (p *Pacer) Do(ctx context.Context, fn func(context.Context)) error {
	if err := p.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	fn(ctx)

	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
