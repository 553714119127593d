package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*Redis)(nil)

// slidingWindowScript keeps one sorted set per key scored by request time in
// milliseconds. It drops entries older than the window, adds the request
// when under the limit and returns {allowed, count, oldest score}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// Redis is a sliding window log shared by every instance through Redis.
type Redis struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedis(client redis.Scripter, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: "ratelimit:",
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (*Result, error) {
	now := r.now().UnixMilli()
	window := r.window.Milliseconds()

	vals, err := slidingWindowScript.Run(ctx, r.client, []string{r.prefix + key},
		now, window, r.limit, strconv.FormatInt(now, 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}

	allowed := vals[0] == 1
	count := int(vals[1])
	resetAfter := time.Duration(vals[2]+window-now) * time.Millisecond
	return result(allowed, r.limit, count, resetAfter), nil
}
