package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChargeGuard suppresses concurrent duplicate charge attempts with a
// SET NX reservation. The TTL bounds how long a crashed attempt can block its
// key; completed attempts release explicitly.
type RedisChargeGuard struct {
	client *redis.Client
}

func NewRedisChargeGuard(client *redis.Client) *RedisChargeGuard {
	return &RedisChargeGuard{client: client}
}

func (g *RedisChargeGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return g.client.SetNX(ctx, "waf:charge:"+key, "1", ttl).Result()
}

func (g *RedisChargeGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, "waf:charge:"+key).Err()
}
