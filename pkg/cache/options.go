package cache

import "time"

type memoryConfig struct {
	ttl   time.Duration
	sweep time.Duration
	cap   int
}

// MemoryOption configures NewMemory.
type MemoryOption func(*memoryConfig)

// WithDefaultTTL sets the lifetime applied when Set receives a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.ttl = d
	}
}

// WithSweepInterval sets how often the background sweeper drops expired
// records. Zero disables the sweeper entirely; stale records are then
// dropped lazily on access. Default: 1 minute.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.sweep = d
	}
}

// WithMaxEntries bounds the cache. At capacity the least recently touched
// record is evicted to make room. Zero means unbounded. Default: 0.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) {
		c.cap = n
	}
}

type redisConfig struct {
	prefix string
	ttl    time.Duration
}

// RedisOption configures NewRedis.
type RedisOption func(*redisConfig)

// WithPrefix namespaces keys as "{prefix}:{key}" so several caches can
// share one Redis database. Clear only touches the configured namespace.
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) {
		c.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the lifetime applied when Set receives a zero
// TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.ttl = d
	}
}
