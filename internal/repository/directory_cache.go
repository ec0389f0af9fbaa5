package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dirkit/user-directory/internal/domain"
)

const (
	directoryGenerationKey = "directory:generation"
	directorySearchPrefix  = "directory:search"
)

// DirectoryCache stores directory search results. Lookup returns the key
// the result belongs under; Store must be given that key so rows read after
// a miss never land in a newer generation.
type DirectoryCache interface {
	Lookup(ctx context.Context, filter string) (key string, entries []domain.DirectoryEntry, hit bool, err error)
	Store(ctx context.Context, key string, entries []domain.DirectoryEntry) error
	// Invalidate drops every cached result.
	Invalidate(ctx context.Context) error
}

type redisDirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDirectoryCache caches results under a generation counter. Bumping
// the counter orphans older entries, which then expire by TTL.
func NewRedisDirectoryCache(client *redis.Client, ttl time.Duration) DirectoryCache {
	return &redisDirectoryCache{client: client, ttl: ttl}
}

func (c *redisDirectoryCache) Lookup(ctx context.Context, filter string) (string, []domain.DirectoryEntry, bool, error) {
	gen, err := c.client.Get(ctx, directoryGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", nil, false, err
	}
	key := directoryKey(gen, filter)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return key, nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}

	var entries []domain.DirectoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return key, nil, false, fmt.Errorf("decode cached directory: %w", err)
	}
	return key, entries, true, nil
}

func (c *redisDirectoryCache) Store(ctx context.Context, key string, entries []domain.DirectoryEntry) error {
	if key == "" {
		return nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *redisDirectoryCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, directoryGenerationKey).Err()
}

func directoryKey(generation int64, filter string) string {
	return fmt.Sprintf("%s:%d:%q", directorySearchPrefix, generation, filter)
}

type nopDirectoryCache struct{}

// NewNopDirectoryCache returns a cache that never hits.
func NewNopDirectoryCache() DirectoryCache {
	return nopDirectoryCache{}
}

func (nopDirectoryCache) Lookup(context.Context, string) (string, []domain.DirectoryEntry, bool, error) {
	return "", nil, false, nil
}

func (nopDirectoryCache) Store(context.Context, string, []domain.DirectoryEntry) error {
	return nil
}

func (nopDirectoryCache) Invalidate(context.Context) error {
	return nil
}
