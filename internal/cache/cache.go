// Package cache keeps computed review views in Redis. Entries are keyed by
// dataset id, so loading a new dataset makes every older entry unreachable;
// the TTL reclaims them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when no entry exists.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "review:view"

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Printf("[cache] connected to Redis at %s", opts.Addr)
	return client, nil
}

// ViewCache stores JSON-encoded view-models.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a cache whose entries live for ttl.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// Key derives the cache key of a view kind ("view", "export", ...) computed
// for a dataset under the given criteria.
func Key(datasetID, kind string, criteria any) (string, error) {
	data, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("failed to hash criteria: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, datasetID, kind, hex.EncodeToString(sum[:])), nil
}

// Get decodes the entry at key into dst.
func (c *ViewCache) Get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return nil
}

// Set stores v at key.
func (c *ViewCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached entry at key, or computes, stores and
// returns it. Cache failures fall through to compute.
func GetOrCompute[T any](ctx context.Context, c *ViewCache, key string, compute func() (T, error)) (T, error) {
	var v T
	if c == nil {
		return compute()
	}
	err := c.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrMiss) {
		log.Printf("[cache] get %s: %v", key, err)
	}

	v, err = compute()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
	return v, nil
}

// Purge drops every entry of a dataset. Returns the number removed.
func (c *ViewCache) Purge(ctx context.Context, datasetID string) (int, error) {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, datasetID)
	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan cache: %w", err)
	}
	return removed, nil
}
