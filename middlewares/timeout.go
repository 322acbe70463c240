package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/intake/internal"
)

// DefaultTimeout is the request budget used when none is configured.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

type timeoutContextKey struct{}

// TimeoutEntry registers Timeout at the security stage.
func TimeoutEntry(timeout time.Duration, opts ...TimeoutOption) internal.Entry {
	return internal.NewEntry(internal.StageSecurity, Timeout(timeout, opts...),
		internal.WithEntryName("timeout"),
	)
}

// Timeout returns middleware that bounds how long a request may run. When
// a handler outlives the budget the client gets a TimeoutError through the
// global ErrorHandler. The handler goroutine itself keeps running, so
// streaming work should watch GetTimeoutContext(c).Done() and stop early.
// Uploads read bodies inside the handler, which means the budget covers
// client transfer time as well; size it for the slowest client the service
// should tolerate. Zero and negative budgets fall back to DefaultTimeout.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{Timeout: timeout}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()
			c.Set(timeoutContextKey{}, ctx)

			result := make(chan error, 1)
			go func() { result <- next(c) }()

			select {
			case err := <-result:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
					return &TimeoutError{Duration: cfg.Timeout}
				}
				// Cancelled upstream: client gone or server draining.
				return ctx.Err()
			}
		}
	}
}

// GetTimeoutContext returns the deadline-bearing context Timeout installed
// for this request, or the plain request context when the middleware is
// not mounted. Blocking storage calls should take this one so they stop
// paying for round trips once the budget runs out.
func GetTimeoutContext(c internal.Context) context.Context {
	if v, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return v
	}
	return c.Context()
}
