package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL key-value store generic over the value type. The upload
// pipeline keeps resolved file URLs in one so repeated lookups skip the
// storage backend.
//
// TTL passed to Set: positive expires after the duration, zero applies the
// backend's configured default, negative never expires.
type Cache[V any] interface {
	// Get returns the value for key, or ErrNotFound when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether key is present and unexpired.
	Has(ctx context.Context, key string) (bool, error)

	// Clear drops every entry.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Marshaler converts values to and from the byte form a remote backend
// stores. NewRedis falls back to JSON when given none.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var flights singleflight.Group

type flightResult[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet returns the cached value for key, computing and storing it with
// load on a miss. Concurrent misses for the same key share a single load
// call instead of stampeding the backend. Load errors are returned without
// caching anything.
//
// The load callback returns the value together with the TTL it should be
// cached under.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	// Flight keys carry the backend's concrete type so equal keys used with
	// caches of different value types cannot hand each other their results.
	res, err, _ := flights.Do(fmt.Sprintf("%T:%s", c, key), func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return flightResult[V]{val: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	r := res.(flightResult[V])

	// Best effort; a failed write just means the next caller loads again.
	_ = c.Set(ctx, key, r.val, r.ttl)

	return r.val, nil
}
