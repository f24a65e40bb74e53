// Package cache provides the Redis-backed session revocation list.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// denyKeyPrefix namespaces revoked session IDs.
const denyKeyPrefix = "session:denied:"

// Cache provides Redis access methods.
type Cache struct {
	client *redis.Client
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing Redis client. Used by tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// DenySession marks a session ID as revoked for the given duration.
// The TTL matches the token's remaining lifetime, so entries expire
// exactly when the token would have anyway.
func (c *Cache) DenySession(ctx context.Context, jti string, ttl time.Duration) error {
	if err := c.client.Set(ctx, denyKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny session %s: %w", jti, err)
	}
	return nil
}

// SessionDenied reports whether a session ID has been revoked.
func (c *Cache) SessionDenied(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, denyKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", jti, err)
	}
	return n > 0, nil
}
