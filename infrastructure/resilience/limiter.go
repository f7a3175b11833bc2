package resilience

import (
	"context"

	"golang.org/x/time/rate"
)

// NewLimiter allows perSecond calls per second with a burst of the same size. A non-positive
// rate disables limiting.
func NewLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

// Wait blocks on limiter when one is configured.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
