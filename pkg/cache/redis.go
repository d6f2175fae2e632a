package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/hint/config"
)

// InitRedis builds a redis client and pings it once so a bad address fails fast
// at startup instead of on the first session lookup.
func InitRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
