// Package cache provides an optional Redis-backed classification cache.
// Classification is deterministic per input text, so cached verdicts can be
// replayed without re-invoking the model. Social context is never cached;
// posts live only for the request that fetched them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/domain"
)

// keyPrefix namespaces classification cache entries.
const keyPrefix = "veracity:classification:"

// connectionTimeout bounds the startup connection probe.
const connectionTimeout = 5 * time.Second

// ClassificationCache stores classification results keyed by a digest of
// the input text.
type ClassificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a classification cache and verifies the connection.
func New(cfg config.RedisConfig) (*ClassificationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &ClassificationCache{client: client, ttl: cfg.ClassificationCacheTTL}, nil
}

// Get returns the cached result for text, or nil on a miss. Cache errors
// are returned so the caller can log them, but a broken cache must never
// fail a request.
func (c *ClassificationCache) Get(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	data, err := c.client.Get(ctx, cacheKey(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var result domain.ClassificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &result, nil
}

// Set stores a classification result with the configured TTL.
func (c *ClassificationCache) Set(ctx context.Context, text string, result *domain.ClassificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *ClassificationCache) Close() error {
	return c.client.Close()
}

// cacheKey derives the cache key from a SHA-256 digest of the text.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
