// Package cache provides a Redis-backed cache-aside layer for catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"catalog/config"
	"catalog/internal/domain/lifecycle"
	"catalog/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Cache wraps a Redis client with a key prefix and default TTL.
// A nil *Cache is valid and behaves as a permanent miss, so callers never
// need to branch on whether caching is enabled.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the cache from configuration. Returns nil when the cache is
// disabled; catalog reads then go straight to the database.
func New(params Params) (*Cache, error) {
	cfg := params.Config.Redis
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	c := &Cache{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		logger: params.Logger,
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(client.Ping(ctx).Err(), "failed to ping Redis")
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return c, nil
}

// Get retrieves a value from the cache.
// Returns a boolean indicating whether it was found (cache hit).
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Cache miss
		}

		return false, errors.Wrap(err, "cache get")
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrap(err, "cache unmarshal")
	}

	return true, nil
}

// Set stores a value in the cache with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache marshal")
	}

	return errors.Wrap(c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(), "cache set")
}

// Delete removes a single key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}

	return errors.Wrap(c.client.Del(ctx, c.prefix+key).Err(), "cache delete")
}

// DeletePattern removes all keys matching a glob pattern. Used to invalidate
// every cached listing after a catalog write.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if c == nil {
		return nil
	}

	fullPattern := c.prefix + pattern

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return errors.Wrap(err, "cache scan")
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "cache delete pattern")
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}
