// Package redisstore keeps the visit counter in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devops-workshop/demo-apps/pkg/logger"
)

// ErrEmptyAddress is returned by Connect when no address is configured.
var ErrEmptyAddress = errors.New("redisstore: address is required")

// Config holds Redis-specific configuration.
type Config struct {
	// Address is the Redis server address (host:port)
	Address string

	// Password is the Redis password (optional)
	Password string

	// Database is the Redis database number (0-15)
	Database int

	// KeyPrefix is the prefix for all Redis keys
	KeyPrefix string
}

// Client handles the Redis operations of the visit counter.
type Client struct {
	client    *redis.Client
	keyPrefix string
}

// Connect creates a new Redis client and validates connectivity.
// The context bounds the initial ping.
func Connect(ctx context.Context, config Config) (*Client, error) {
	if config.Address == "" {
		return nil, ErrEmptyAddress
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.Database,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Address, err)
	}

	logger.Infof("Connected to Redis at %s", config.Address)

	return &Client{
		client:    rdb,
		keyPrefix: config.KeyPrefix,
	}, nil
}

// Increment bumps the visit counter and returns the new value.
func (c *Client) Increment(ctx context.Context) (int64, error) {
	visits, err := c.client.Incr(ctx, c.buildKey("visits")).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment visits: %w", err)
	}
	return visits, nil
}

// Ping checks that the server still answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection pool.
func (c *Client) Close(context.Context) error {
	return c.client.Close()
}

// buildKey joins the key prefix and parts with colons.
func (c *Client) buildKey(parts ...string) string {
	var builder strings.Builder
	builder.WriteString(c.keyPrefix)
	for i, part := range parts {
		if i > 0 || c.keyPrefix != "" {
			builder.WriteByte(':')
		}
		builder.WriteString(part)
	}
	return builder.String()
}
