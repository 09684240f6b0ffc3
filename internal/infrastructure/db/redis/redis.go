// Package redis holds the Redis-backed session registry.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/tasktrack/internal/pkg/config"
)

const connectTimeout = 5 * time.Second

// clientOptions maps the REDIS_* settings onto go-redis options. Zero
// timeouts keep the go-redis defaults.
func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
}

// Connect opens the session registry connection and pings it once, bounded
// by REDIS_TIMEOUT or connectTimeout when that is unset.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
