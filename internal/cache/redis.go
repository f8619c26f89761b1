// Package cache provides the Redis-backed detail-view cache. It is
// best-effort by contract: callers treat every failure as a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"homehound/internal/listings"
)

const keyPrefix = "homehound"

// RedisDetailCache stores serialized detail views keyed by listing and
// viewer. It implements listings.Cache.
type RedisDetailCache struct {
	client *redis.Client
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisDetailCache connects to Redis and verifies the connection.
func NewRedisDetailCache(opts Options) (*RedisDetailCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisDetailCache{client: client}, nil
}

// detailKey builds the per-viewer cache key. Viewer identity is part of
// the key because favorite status is viewer-specific.
func detailKey(listingID, viewerKey string) string {
	return fmt.Sprintf("%s:listing:%s:%s", keyPrefix, listingID, viewerKey)
}

// listingPattern matches every viewer's entry for one listing.
func listingPattern(listingID string) string {
	return fmt.Sprintf("%s:listing:%s:*", keyPrefix, listingID)
}

// GetDetail returns the cached view or listings.ErrCacheMiss.
func (c *RedisDetailCache) GetDetail(ctx context.Context, listingID, viewerKey string) (*listings.DetailView, error) {
	data, err := c.client.Get(ctx, detailKey(listingID, viewerKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, listings.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var view listings.DetailView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("unmarshal cached view: %w", err)
	}
	return &view, nil
}

// SetDetail stores the view with the given TTL.
func (c *RedisDetailCache) SetDetail(ctx context.Context, listingID, viewerKey string, view *listings.DetailView, ttl time.Duration) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := c.client.Set(ctx, detailKey(listingID, viewerKey), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate removes every viewer's entry for the listing, scanning
// rather than KEYS so large keyspaces stay responsive.
func (c *RedisDetailCache) Invalidate(ctx context.Context, listingID string) error {
	iter := c.client.Scan(ctx, 0, listingPattern(listingID), 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisDetailCache) Close() error {
	return c.client.Close()
}
