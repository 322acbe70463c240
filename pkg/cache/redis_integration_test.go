//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/pkg/cache"
	"github.com/dmitrymomot/intake/pkg/redis"
)

func redisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err, "redis must be reachable for integration tests")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisGetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-miss"))

		_, err := c.Get(ctx, "local:missing.pdf")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("hit returns the stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-hit"))

		require.NoError(t, c.Set(ctx, "s3:report.pdf", urlA, time.Minute))

		got, err := c.Get(ctx, "s3:report.pdf")
		require.NoError(t, err)
		require.Equal(t, urlA, got)
	})

	t.Run("overwrite replaces the value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-overwrite"))

		require.NoError(t, c.Set(ctx, "s3:photo.jpg", urlA, time.Minute))
		require.NoError(t, c.Set(ctx, "s3:photo.jpg", urlB, time.Minute))

		got, err := c.Get(ctx, "s3:photo.jpg")
		require.NoError(t, err)
		require.Equal(t, urlB, got)
	})

	t.Run("struct values survive the JSON round trip", func(t *testing.T) {
		t.Parallel()

		type meta struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		}

		c := cache.NewRedis[meta](redisClient(t), nil, cache.WithPrefix("urls-meta"))

		want := meta{Name: "report.pdf", Size: 48_213}
		require.NoError(t, c.Set(ctx, "meta:report.pdf", want, time.Minute))

		got, err := c.Get(ctx, "meta:report.pdf")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestRedisExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("redis expires the key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-expire"))

		require.NoError(t, c.Set(ctx, "s3:short.pdf", urlA, 50*time.Millisecond))
		time.Sleep(120 * time.Millisecond)

		_, err := c.Get(ctx, "s3:short.pdf")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero TTL picks up the default", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil,
			cache.WithPrefix("urls-default-ttl"),
			cache.WithRedisDefaultTTL(100*time.Millisecond),
		)

		require.NoError(t, c.Set(ctx, "s3:report.pdf", urlA, 0))

		_, err := c.Get(ctx, "s3:report.pdf")
		require.NoError(t, err)

		time.Sleep(200 * time.Millisecond)

		_, err = c.Get(ctx, "s3:report.pdf")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative TTL pins the key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil,
			cache.WithPrefix("urls-pinned"),
			cache.WithRedisDefaultTTL(50*time.Millisecond),
		)

		require.NoError(t, c.Set(ctx, "local:pinned.pdf", urlA, -1))
		time.Sleep(120 * time.Millisecond)

		got, err := c.Get(ctx, "local:pinned.pdf")
		require.NoError(t, err)
		require.Equal(t, urlA, got)
	})
}

func TestRedisDeleteHas(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Delete removes the key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-del"))

		require.NoError(t, c.Set(ctx, "s3:report.pdf", urlA, time.Minute))
		require.NoError(t, c.Delete(ctx, "s3:report.pdf"))

		ok, err := c.Has(ctx, "s3:report.pdf")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("Delete of an absent key is fine", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-del-miss"))

		require.NoError(t, c.Delete(ctx, "never-stored"))
	})

	t.Run("Has sees stored keys", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis[string](redisClient(t), nil, cache.WithPrefix("urls-has"))

		require.NoError(t, c.Set(ctx, "s3:report.pdf", urlA, time.Minute))

		ok, err := c.Has(ctx, "s3:report.pdf")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = c.Has(ctx, "s3:other.pdf")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestRedisClearScopes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := redisClient(t)

	mine := cache.NewRedis[string](client, nil, cache.WithPrefix("urls-clear-a"))
	other := cache.NewRedis[string](client, nil, cache.WithPrefix("urls-clear-b"))

	require.NoError(t, mine.Set(ctx, "one", urlA, time.Minute))
	require.NoError(t, mine.Set(ctx, "two", urlB, time.Minute))
	require.NoError(t, other.Set(ctx, "one", urlA, time.Minute))

	require.NoError(t, mine.Clear(ctx))

	for _, key := range []string{"one", "two"} {
		ok, err := mine.Has(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, "cleared namespace still holds %s", key)
	}

	ok, err := other.Has(ctx, "one")
	require.NoError(t, err)
	require.True(t, ok, "Clear must not cross namespaces")
}

func TestRedisPrefixIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := redisClient(t)

	a := cache.NewRedis[string](client, nil, cache.WithPrefix("urls-iso-a"))
	b := cache.NewRedis[string](client, nil, cache.WithPrefix("urls-iso-b"))

	require.NoError(t, a.Set(ctx, "report.pdf", urlA, time.Minute))
	require.NoError(t, b.Set(ctx, "report.pdf", urlB, time.Minute))

	got, err := a.Get(ctx, "report.pdf")
	require.NoError(t, err)
	require.Equal(t, urlA, got)

	got, err = b.Get(ctx, "report.pdf")
	require.NoError(t, err)
	require.Equal(t, urlB, got)
}

// rawMarshaler stores strings as their bytes, no JSON framing.
type rawMarshaler struct{}

func (rawMarshaler) Marshal(v string) ([]byte, error)   { return []byte(v), nil }
func (rawMarshaler) Unmarshal(b []byte) (string, error) { return string(b), nil }

func TestRedisCustomMarshaler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := redisClient(t)

	c := cache.NewRedis[string](client, rawMarshaler{}, cache.WithPrefix("urls-raw"))

	require.NoError(t, c.Set(ctx, "report.pdf", urlA, time.Minute))

	got, err := c.Get(ctx, "report.pdf")
	require.NoError(t, err)
	require.Equal(t, urlA, got)

	// The marshaler controls the wire form: no JSON quotes around the URL.
	raw, err := client.Get(ctx, "urls-raw:report.pdf").Result()
	require.NoError(t, err)
	require.Equal(t, urlA, raw)
}

func TestRedisClose(t *testing.T) {
	t.Parallel()

	c := cache.NewRedis[string](redisClient(t), nil)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
