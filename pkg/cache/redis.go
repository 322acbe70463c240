package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps entries in a shared Redis database so every instance of the
// service resolves the same cached URLs. Values pass through the configured
// Marshaler on the way in and out; JSON when none is set.
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Marshaler[V]
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an established client, normally the one pkg/redis.Open
// returns. Pass a nil Marshaler to store values as JSON.
//
//	urls := cache.NewRedis[string](client, nil,
//	    cache.WithPrefix("urls"),
//	    cache.WithRedisDefaultTTL(10*time.Minute),
//	)
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{ttl: time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	return &Redis[V]{client: client, codec: m, prefix: cfg.prefix, ttl: cfg.ttl}
}

// Get returns the value for key, or ErrNotFound once Redis has expired it.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, ErrNotFound
	case err != nil:
		return zero, err
	}
	return r.codec.Unmarshal(raw)
}

// Set stores value under key. Expiry is delegated to Redis; a negative ttl
// means keep forever, which Redis spells as zero.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	raw, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, r.key(key), raw, max(ttl, 0)).Err()
}

// Delete removes key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Has reports whether key exists.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	return n > 0, err
}

// Clear removes this cache's keys. With a prefix configured it SCANs for
// "{prefix}:*" and deletes in batches, which does not block the server.
// Without a prefix it flushes the whole database, so caches sharing an
// instance should each carry a distinct prefix.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op; the client's lifecycle belongs to whoever opened it
// (pkg/redis.Shutdown on the way down).
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

var _ Cache[any] = (*Redis[any])(nil)
