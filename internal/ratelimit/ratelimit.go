// Package ratelimit throttles outbound relay calls with golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces calls to a requests-per-minute budget. A nil *Limiter
// never blocks, so callers can leave throttling unconfigured.
type Limiter struct {
	limiter *rate.Limiter
	rpm     int
}

// New returns a limiter allowing requestsPerMinute with a burst of 10% of
// the budget (at least 1). It returns nil when requestsPerMinute <= 0.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		rpm:     requestsPerMinute,
	}
}

// Wait blocks until a call may proceed and reports how long it waited.
func (l *Limiter) Wait(ctx context.Context) (time.Duration, error) {
	if l == nil {
		return 0, ctx.Err()
	}
	start := time.Now()
	err := l.limiter.Wait(ctx)
	return time.Since(start), err
}

// RPM returns the configured budget, 0 for a nil limiter.
func (l *Limiter) RPM() int {
	if l == nil {
		return 0
	}
	return l.rpm
}
