// Package ratelimit paces script operations against a store.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Pacer spaces store operations out to a fixed number per second.
type Pacer struct {
	limiter *rate.Limiter
}

// New returns a pacer allowing opsPerSecond operations with a burst of one.
// Zero or negative means unpaced.
func New(opsPerSecond float64) *Pacer {
	if opsPerSecond <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(opsPerSecond), 1)}
}

// Wait blocks until the next operation may run or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pace operation: %w", err)
	}
	return nil
}

// Rate returns the configured operations per second, 0 when unpaced.
func (p *Pacer) Rate() float64 {
	limit := p.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
