package throttle

import (
	"sync"
	"time"
)

// tokenBucket represents a single token bucket for rate limiting.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	capacity   float64
	refillRate float64 // tokens per second
	window     time.Duration
}

func newTokenBucket(rate Rate, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(rate.Limit),
		lastRefill: now,
		capacity:   float64(rate.Limit),
		refillRate: rate.refillPerSecond(),
		window:     rate.Window,
	}
}

// consume refills for the time elapsed since the last call and takes tokens if enough remain.
func (tb *tokenBucket) consume(tokens float64, now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
		tb.lastRefill = now
	}

	if tb.tokens >= tokens {
		tb.tokens -= tokens
		return true
	}

	return false
}

func (tb *tokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastRefill)
}
