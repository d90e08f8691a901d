package retry

import (
	"context"
	"math/rand"
	"time"
)

// BackoffStrategy computes the pause before a given retry attempt
type BackoffStrategy interface {
	// NextDelay returns the delay after the attempt-th failure (1-based)
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff multiplies BaseDelay per failed attempt up to MaxDelay.
// JitterFactor spreads each delay by up to that fraction in either direction.
type ExponentialBackoff struct {
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64
}

// DefaultExponentialBackoff returns 1s, 2s, 4s... up to 30s with 10% jitter
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	growth := eb.Multiplier
	if growth < 1 {
		growth = 2
	}

	delay := float64(eb.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= growth
		if eb.MaxDelay > 0 && delay >= float64(eb.MaxDelay) {
			break
		}
	}
	if eb.MaxDelay > 0 && delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	return spread(time.Duration(delay), eb.JitterFactor)
}

// spread returns d moved randomly within ±factor·d
func spread(d time.Duration, factor float64) time.Duration {
	if factor <= 0 || d <= 0 {
		return d
	}
	width := float64(d) * factor
	return time.Duration(float64(d) - width + rand.Float64()*2*width)
}

// ConstantBackoff waits the same Delay before every retry
type ConstantBackoff struct {
	Delay time.Duration
}

func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait blocks for delay or until ctx is done. A non-positive delay only
// reports ctx's state.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
