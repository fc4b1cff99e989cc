// Package cache keeps rendered listing views and drops them when a mutation
// invalidates their path.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix = "view:"     // Cached body: view:{path}:g{generation}:{variant}
	genKeyPrefix  = "view:gen:" // Generation counter per path: view:gen:{path}
)

// Invalidator drops every cached variant of a path.
type Invalidator interface {
	InvalidatePath(ctx context.Context, path string) error
}

// ViewCache stores response bodies for a path and a variant (typically the query string).
type ViewCache interface {
	Invalidator
	// Lookup returns the cached body, or nil on a miss. The slot pins the
	// generation seen by the lookup so a later Store cannot resurrect a view
	// that was invalidated in between.
	Lookup(ctx context.Context, path, variant string) ([]byte, Slot, error)
	Store(ctx context.Context, slot Slot, body []byte) error
}

// Slot addresses one cache entry.
type Slot struct {
	key string
}

// Key returns the redis key of the slot, or "" for a slot that stores nothing.
func (s Slot) Key() string { return s.key }

// RedisCache is a ViewCache backed by redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache; ttl bounds how long an entry may live without invalidation.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Lookup(ctx context.Context, path, variant string) ([]byte, Slot, error) {
	gen, err := c.generation(ctx, path)
	if err != nil {
		return nil, Slot{}, err
	}

	slot := Slot{key: c.viewKey(path, gen, variant)}
	body, err := c.client.Get(ctx, slot.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, slot, nil
	}
	if err != nil {
		return nil, Slot{}, fmt.Errorf("failed to get view: %w", err)
	}
	return body, slot, nil
}

func (c *RedisCache) Store(ctx context.Context, slot Slot, body []byte) error {
	if slot.key == "" {
		return nil
	}
	if err := c.client.Set(ctx, slot.key, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store view: %w", err)
	}
	return nil
}

// InvalidatePath bumps the path generation; entries of older generations are
// never read again and expire on their own.
func (c *RedisCache) InvalidatePath(ctx context.Context, path string) error {
	if err := c.client.Incr(ctx, c.genKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", path, err)
	}
	return nil
}

func (c *RedisCache) generation(ctx context.Context, path string) (int64, error) {
	v, err := c.client.Get(ctx, c.genKey(path)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation: %w", err)
	}
	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt generation for %s: %w", path, err)
	}
	return gen, nil
}

func (c *RedisCache) viewKey(path string, gen int64, variant string) string {
	return fmt.Sprintf("%s%s:g%d:%s", viewKeyPrefix, path, gen, variant)
}

func (c *RedisCache) genKey(path string) string {
	return genKeyPrefix + path
}

// Noop satisfies ViewCache without storing anything.
type Noop struct{}

func (Noop) Lookup(context.Context, string, string) ([]byte, Slot, error) { return nil, Slot{}, nil }
func (Noop) Store(context.Context, Slot, []byte) error                    { return nil }
func (Noop) InvalidatePath(context.Context, string) error                 { return nil }
