package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const clientName = "amnii-waf-billing"

// Connect builds the Redis client behind the lockout store and the charge
// guard. Both redis:// URLs and bare host:port addresses are accepted.
// Timeouts are pinned low: the guard sits on the charge path, and a hung
// Redis must surface as a fast guard failure, not a stalled payment.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	}
	opt.ClientName = clientName
	opt.DialTimeout = 3 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	return redis.NewClient(opt), nil
}
