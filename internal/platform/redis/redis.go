package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jucai-fund-backend/internal/common/config"
	"jucai-fund-backend/internal/common/logger"
)

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// Open creates a new Redis client and pings it to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &Client{Client: c}, nil
}

// OpenFromConfig opens the client described by cfg.
func OpenFromConfig(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	c, err := Open(ctx, cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	logger.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("Redis client initialized")
	return c, nil
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
