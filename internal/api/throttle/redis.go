package throttle

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and consumes atomically so every API instance
// shares one bucket per key. Bucket hashes expire shortly after a full window.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refillRate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])
	if tokens == nil then
		tokens = capacity
	end
	if lastRefill == nil then
		lastRefill = now
	end

	local elapsed = (now - lastRefill) / 1000000000
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * refillRate)
	end

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', tostring(now))
	redis.call('EXPIRE', key, ttl)

	return allowed
`)

// RedisLimiter is the distributed Limiter used when REDIS_ADDR is configured.
type RedisLimiter struct {
	client    redis.UniversalClient
	rate      Rate
	keyPrefix string
}

// NewRedisLimiter uses "throttle:" when keyPrefix is empty.
func NewRedisLimiter(client redis.UniversalClient, rate Rate, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "throttle:"
	}

	return &RedisLimiter{
		client:    client,
		rate:      rate,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ttl := int64(math.Ceil(r.rate.Window.Seconds() * 1.1))

	result, err := tokenBucketScript.Run(ctx, r.client, []string{r.keyPrefix + key},
		float64(r.rate.Limit),
		r.rate.refillPerSecond(),
		time.Now().UnixNano(),
		ttl,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return result == 1, nil
}

// Ping checks if the Redis connection is healthy.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
