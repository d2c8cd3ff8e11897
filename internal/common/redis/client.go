package redis

import (
	"context"
	"fmt"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/config"

	"github.com/go-redis/redis/v8"
)

// Connect creates a client for cfg and pings it. The client is closed when
// the ping fails.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
