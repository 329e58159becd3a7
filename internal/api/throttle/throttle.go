package throttle

import (
	"context"
	"time"
)

// Limiter decides whether the caller identified by key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Rate is a token bucket of Limit tokens refilled evenly over Window.
type Rate struct {
	Limit  int
	Window time.Duration
}

func (r Rate) refillPerSecond() float64 {
	return float64(r.Limit) / r.Window.Seconds()
}
