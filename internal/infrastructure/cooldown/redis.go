package cooldown

import (
	"context"
	"fmt"
	"time"

	"bert_flex/internal/app/port"

	"github.com/redis/go-redis/v9"
)

// RedisTracker shares cooldowns between processes through Redis keys with a TTL.
type RedisTracker struct {
	client *redis.Client
	window time.Duration
	prefix string
}

var _ port.CooldownTracker = (*RedisTracker)(nil)

// NewRedisTracker creates a tracker on top of an existing client.
func NewRedisTracker(client *redis.Client, window time.Duration, prefix string) *RedisTracker {
	return &RedisTracker{client: client, window: window, prefix: prefix}
}

// Acquire implements port.CooldownTracker with SET NX PX; on a miss the key's PTTL
// is the time left.
func (t *RedisTracker) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := t.prefix + key
	ok, err := t.client.SetNX(ctx, redisKey, time.Now().Unix(), t.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis SETNX %s: %w", redisKey, err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := t.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis PTTL %s: %w", redisKey, err)
	}
	if ttl < 0 {
		// The key vanished or lost its TTL between the two commands.
		ttl = t.window
	}
	return false, ttl, nil
}

// Ping checks connectivity.
func (t *RedisTracker) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}
