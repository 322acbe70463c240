package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option adjusts connection pool and retry behavior.
type Option func(*config)

type config struct {
	// Pool shape.
	poolSize     int
	minIdleConns int
	maxIdleTime  time.Duration
	maxLifetime  time.Duration

	// Per-command timeouts.
	readTimeout  time.Duration
	writeTimeout time.Duration
	dialTimeout  time.Duration

	// Startup retry.
	retryAttempts int
	retryInterval time.Duration
}

func defaultConfig() *config {
	return &config{
		poolSize:      10,
		minIdleConns:  5,
		maxIdleTime:   10 * time.Minute,
		maxLifetime:   30 * time.Minute,
		readTimeout:   3 * time.Second,
		writeTimeout:  3 * time.Second,
		dialTimeout:   5 * time.Second,
		retryAttempts: 3,
		retryInterval: 5 * time.Second,
	}
}

// WithPoolSize caps the connection pool. Default 10.
func WithPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}

// WithMinIdleConns keeps at least n connections warm. Default 5.
func WithMinIdleConns(n int) Option {
	return func(c *config) { c.minIdleConns = n }
}

// WithMaxIdleTime closes connections idle longer than d. Default 10m.
func WithMaxIdleTime(d time.Duration) Option {
	return func(c *config) { c.maxIdleTime = d }
}

// WithMaxActiveTime recycles connections older than d. Default 30m.
func WithMaxActiveTime(d time.Duration) Option {
	return func(c *config) { c.maxLifetime = d }
}

// WithRetry shapes the startup retry loop: how many pings to attempt and
// the base interval between them, which grows with each failure.
// Default 3 attempts at 5s.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(c *config) {
		c.retryAttempts = attempts
		c.retryInterval = interval
	}
}

// WithReadTimeout bounds each read. Default 3s.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout bounds each write. Default 3s.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { c.writeTimeout = d }
}

// WithDialTimeout bounds new connection setup. Default 5s.
func WithDialTimeout(d time.Duration) Option {
	return func(c *config) { c.dialTimeout = d }
}

// Open connects to the Redis at url and verifies it answers before
// returning. Both redis:// and rediss:// (TLS) schemes are accepted.
// The session store and cache layers share one client opened here.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, 3*time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if scheme, _, ok := strings.Cut(url, "://"); !ok || (scheme != "redis" && scheme != "rediss") {
		return nil, ErrFailedToParseURL
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	ro.PoolSize = cfg.poolSize
	ro.MinIdleConns = cfg.minIdleConns
	ro.ConnMaxIdleTime = cfg.maxIdleTime
	ro.ConnMaxLifetime = cfg.maxLifetime
	ro.ReadTimeout = cfg.readTimeout
	ro.WriteTimeout = cfg.writeTimeout
	ro.DialTimeout = cfg.dialTimeout

	return connect(ctx, ro, cfg.retryAttempts, cfg.retryInterval)
}

// MustOpen is Open for programs where Redis is a hard startup dependency;
// it logs and exits on failure.
func MustOpen(ctx context.Context, url string, opts ...Option) redis.UniversalClient {
	client, err := Open(ctx, url, opts...)
	if err != nil {
		slog.Error("failed to open redis connection", "error", err)
		os.Exit(1)
	}
	return client
}

// connect pings until one attempt answers, sleeping between failures with
// a delay that grows linearly in the attempt number.
func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if err := wait(ctx, time.Duration(attempt)*interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, ErrConnectionFailed
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
