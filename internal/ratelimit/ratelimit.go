package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBucket is a per-user token bucket kept in Redis, refilled over
// a one-minute window. State changes run in a Lua script so checks
// stay atomic across server instances.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64
	refill   int64
	window   time.Duration
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

const consumeScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local elapsed = now - last_refill
	local refilled = math.floor((elapsed / window) * refill_rate)
	if refilled > 0 then
		tokens = math.min(capacity, tokens + refilled)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return allowed
`

const remainingScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local elapsed = now - last_refill
	local refilled = math.floor((elapsed / window) * refill_rate)
	if refilled > 0 then
		tokens = math.min(capacity, tokens + refilled)
	end

	return tokens
`

// Allow consumes one token for the given user action. It returns
// false once the bucket is empty for the rest of the window.
func (tb *TokenBucket) Allow(ctx context.Context, userID, action string) (bool, error) {
	key := bucketKey(userID, action)
	now := time.Now().Unix()

	result, err := tb.redis.Eval(ctx, consumeScript, []string{key},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), now).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}

	return allowed == 1, nil
}

// GetRemaining returns the number of tokens left for a user action.
func (tb *TokenBucket) GetRemaining(ctx context.Context, userID, action string) (int64, error) {
	key := bucketKey(userID, action)
	now := time.Now().Unix()

	result, err := tb.redis.Eval(ctx, remainingScript, []string{key},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), now).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}

	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from remaining tokens script")
	}

	return remaining, nil
}

// Reset clears the bucket for a specific user action.
func (tb *TokenBucket) Reset(ctx context.Context, userID, action string) error {
	return tb.redis.Del(ctx, bucketKey(userID, action)).Err()
}

// Capacity returns the bucket capacity, for rate limit headers.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

func bucketKey(userID, action string) string {
	return fmt.Sprintf("hornhub:ratelimit:%s:%s", userID, action)
}
