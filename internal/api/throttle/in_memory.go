package throttle

import (
	"context"
	"sync"
	"time"
)

// InMemoryLimiter keeps one token bucket per key in process memory.
// Buckets idle for two windows are dropped by a background sweep.
type InMemoryLimiter struct {
	rate Rate
	now  func() time.Time

	mu          sync.Mutex
	buckets     map[string]*tokenBucket
	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

func NewInMemoryLimiter(rate Rate) *InMemoryLimiter {
	l := &InMemoryLimiter{
		rate:        rate,
		now:         time.Now,
		buckets:     make(map[string]*tokenBucket),
		cleanup:     time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupUnusedBuckets()

	return l
}

// WithClock replaces time.Now, for tests.
func (l *InMemoryLimiter) WithClock(now func() time.Time) *InMemoryLimiter {
	l.now = now
	return l
}

// Stop stops the background cleanup goroutine.
func (l *InMemoryLimiter) Stop() {
	l.cleanup.Stop()
	close(l.stopCleanup)
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = newTokenBucket(l.rate, now)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.consume(1, now), nil
}

func (l *InMemoryLimiter) cleanupUnusedBuckets() {
	for {
		select {
		case <-l.cleanup.C:
			l.sweep()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *InMemoryLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.idleSince(now) > bucket.window*2 {
			delete(l.buckets, key)
		}
	}
}
