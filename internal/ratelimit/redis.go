package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// hitScript performs the capped check-and-increment atomically so that
// concurrent hits on one key cannot both observe a stale under-limit count.
// The counter stored in Redis never passes the configured maximum.
var hitScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local max = tonumber(ARGV[2])
if current >= max then
  return {current + 1, redis.call('PTTL', KEYS[1])}
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {current, 0}
`)

// RedisStore keeps fixed-window counters in Redis, letting multiple
// instances share one budget per client key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration, max int) (int64, time.Duration, error) {
	res, err := hitScript.Run(ctx, s.client, []string{key}, window.Milliseconds(), max).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected script result: %v", res)
	}
	count, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected count in script result: %v", values[0])
	}
	ttlMillis, _ := values[1].(int64)

	var retryAfter time.Duration
	if ttlMillis > 0 {
		retryAfter = time.Duration(ttlMillis) * time.Millisecond
	}
	return count, retryAfter, nil
}
