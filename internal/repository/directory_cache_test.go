package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirkit/user-directory/internal/domain"
)

func TestDirectoryKey(t *testing.T) {
	assert.Equal(t, `directory:search:0:""`, directoryKey(0, ""))
	assert.Equal(t, `directory:search:3:"A"`, directoryKey(3, "A"))
	assert.NotEqual(t, directoryKey(1, "A"), directoryKey(2, "A"))
	assert.Equal(t, `directory:search:1:"a:b"`, directoryKey(1, "a:b"))
}

func TestNopDirectoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewNopDirectoryCache()

	require.NoError(t, cache.Store(ctx, "A", []domain.DirectoryEntry{{ID: "u1"}}))
	key, entries, hit, err := cache.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, key)
	assert.Nil(t, entries)
	assert.NoError(t, cache.Invalidate(ctx))
}

func newRedisCache(t *testing.T) (*miniredis.Miniredis, DirectoryCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisDirectoryCache(client, 30*time.Second)
}

func TestRedisDirectoryCacheHitAndMiss(t *testing.T) {
	ctx := context.Background()
	mr, cache := newRedisCache(t)

	key, entries, hit, err := cache.Lookup(ctx, "Al")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, entries)
	assert.Equal(t, directoryKey(0, "Al"), key)

	stored := []domain.DirectoryEntry{{ID: "u1", FirstName: "Alice", LastName: "Smith"}}
	require.NoError(t, cache.Store(ctx, key, stored))
	assert.Equal(t, 30*time.Second, mr.TTL(key))

	key, entries, hit, err = cache.Lookup(ctx, "Al")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, entries)
	assert.Equal(t, directoryKey(0, "Al"), key)

	_, _, hit, err = cache.Lookup(ctx, "Bo")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisDirectoryCacheEmptyResult(t *testing.T) {
	ctx := context.Background()
	_, cache := newRedisCache(t)

	key, _, _, err := cache.Lookup(ctx, "zzz")
	require.NoError(t, err)
	require.NoError(t, cache.Store(ctx, key, []domain.DirectoryEntry{}))

	_, entries, hit, err := cache.Lookup(ctx, "zzz")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRedisDirectoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, cache := newRedisCache(t)

	key, _, _, err := cache.Lookup(ctx, "")
	require.NoError(t, err)
	require.NoError(t, cache.Store(ctx, key, []domain.DirectoryEntry{{ID: "u1"}}))

	require.NoError(t, cache.Invalidate(ctx))
	gen, err := mr.Get(directoryGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	newKey, _, hit, err := cache.Lookup(ctx, "")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, directoryKey(1, ""), newKey)
}

func TestRedisDirectoryCacheStoreKeepsLookupGeneration(t *testing.T) {
	ctx := context.Background()
	_, cache := newRedisCache(t)

	// A write lands between the miss and the store.
	key, _, hit, err := cache.Lookup(ctx, "Bob")
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Store(ctx, key, []domain.DirectoryEntry{{ID: "u2", FirstName: "Bob"}}))

	_, _, hit, err = cache.Lookup(ctx, "Bob")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisDirectoryCacheErrors(t *testing.T) {
	ctx := context.Background()
	mr, cache := newRedisCache(t)

	require.NoError(t, mr.Set(directoryKey(0, "A"), "not json"))
	_, _, hit, err := cache.Lookup(ctx, "A")
	assert.Error(t, err)
	assert.False(t, hit)

	mr.SetError("server down")
	_, _, _, err = cache.Lookup(ctx, "A")
	assert.Error(t, err)
	assert.Error(t, cache.Invalidate(ctx))
}
