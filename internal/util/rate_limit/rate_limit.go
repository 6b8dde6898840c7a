package rate_limit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"pocketprc/internal/cache"

	"github.com/valkey-io/valkey-go"
)

// RateLimiter is a token bucket shared across backend instances through
// Valkey. Buckets are addressed by a scope ("sync", "leads") and a subject
// (usually a user ID).
type RateLimiter struct {
	client valkey.Client
	scope  string
	rps    int
	burst  int
}

type RateLimitResult struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	ResetTime     time.Time `json:"resetTime"`
	RetryAfterSec int       `json:"retryAfterSec,omitempty"`
}

const (
	defaultTimeout = 5 * time.Second
	keyPrefix      = "rate_limit:"
	bucketTTLSec   = 300
)

// KEYS[1] bucket, ARGV: now millis, rps, burst, ttl seconds.
// Returns {allowed, remaining, millis until full}.
const tokenBucketLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local rps_limit = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local current = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(current[1]) or burst_limit
local last_refill = tonumber(current[2]) or now

local elapsed = math.max(0, now - last_refill)
local tokens_to_add = math.floor(elapsed * rps_limit / 1000)
if tokens_to_add > 0 then
    tokens = math.min(burst_limit, tokens + tokens_to_add)
    last_refill = now
end

local allowed = 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
redis.call('EXPIRE', key, ttl)

local time_to_full = 0
if tokens < burst_limit then
    time_to_full = math.ceil((burst_limit - tokens) * 1000 / rps_limit)
end

return {allowed, tokens, time_to_full}
`

func NewRateLimiter(scope string, rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	return &RateLimiter{
		client: cache.GetCache(),
		scope:  scope,
		rps:    rps,
		burst:  burst,
	}
}

func (r *RateLimiter) Check(subject string) (*RateLimitResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := r.client.Do(ctx, r.client.B().Eval().
		Script(tokenBucketLuaScript).
		Numkeys(1).
		Key(r.key(subject)).
		Arg(strconv.FormatInt(time.Now().UnixMilli(), 10)).
		Arg(strconv.Itoa(r.rps)).
		Arg(strconv.Itoa(r.burst)).
		Arg(strconv.Itoa(bucketTTLSec)).
		Build())

	if result.Error() != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit result: %w", err)
	}

	if len(values) < 3 {
		return nil, fmt.Errorf("invalid rate limit result: expected 3 values, got %d", len(values))
	}

	allowed := values[0] == 1

	var retryAfterSec int
	if !allowed {
		retryAfterSec = max(1, int(math.Ceil(1.0/float64(r.rps))))
	}

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     int(values[1]),
		ResetTime:     time.Now().Add(time.Duration(values[2]) * time.Millisecond),
		RetryAfterSec: retryAfterSec,
	}, nil
}

func (r *RateLimiter) Reset(subject string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return r.client.Do(ctx, r.client.B().Del().Key(r.key(subject)).Build()).Error()
}

func (r *RateLimiter) key(subject string) string {
	return keyPrefix + r.scope + ":" + subject
}
