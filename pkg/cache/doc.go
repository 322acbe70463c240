// Package cache provides the TTL key-value store behind the upload
// pipeline's URL lookups, with in-process and Redis backends sharing one
// generic [Cache] interface.
//
// Resolving a file URL can mean presigning an S3 request; caching the
// result for its signing window turns repeated lookups into map hits. The
// in-process [Memory] backend covers a single instance; [Redis] shares the
// cache across replicas.
//
// TTL semantics are uniform across backends: a positive TTL expires the
// entry after that duration, zero applies the backend's configured default
// (one hour unless overridden), and a negative TTL pins the entry until it
// is deleted or evicted.
//
// # In-process
//
//	urls := cache.NewMemory[string](
//	    cache.WithDefaultTTL(10*time.Minute),
//	    cache.WithMaxEntries(10_000),
//	)
//	defer urls.Close()
//
// [WithMaxEntries] bounds memory: at capacity the least recently touched
// entry is evicted. A background sweeper drops expired entries every
// minute; tune or disable it with [WithSweepInterval] (expired entries are
// also dropped lazily on access, so disabling the sweeper only delays
// reclamation).
//
// # Redis
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	...
//	urls := cache.NewRedis[string](client, nil, cache.WithPrefix("urls"))
//
// [WithPrefix] namespaces keys as "{prefix}:{key}" so several caches can
// share a database; Clear then removes only that namespace, via SCAN. Pass
// a [Marshaler] as the second argument to control the stored byte form;
// nil means JSON.
//
// # Stampede control
//
// [GetOrSet] is how the upload handler populates the cache: on a miss it
// computes the value and stores it, and concurrent misses for the same key
// share a single computation.
//
//	url, err := cache.GetOrSet(ctx, urls, diskName+":"+key,
//	    func(ctx context.Context) (string, time.Duration, error) {
//	        u, err := disk.URL(ctx, key)
//	        return u, 10 * time.Minute, err
//	    })
//
// Errors from the load callback are returned to the caller and nothing is
// cached, so transient backend failures do not poison the cache.
//
// Misses surface as [ErrNotFound]; check with errors.Is. Writes against a
// closed Memory cache return [ErrClosed].
package cache
