package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy and StatusUnhealthy are the two values the status
	// fields of a probe response can take.
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency. The db and redis packages expose
// ready-made closures with this signature.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name to its probe.
type Checks map[string]CheckFunc

// Response is the JSON body of a probe endpoint.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of a single named probe.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a readiness handler.
type Option func(*config)

// WithTimeout bounds how long the whole probe run may take. Zero and
// negative values keep the default of five seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger directs failed-check warnings somewhere visible. Probes
// stay silent otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// runChecks probes every dependency concurrently under one shared
// deadline and folds the outcomes into a Response. One failure flips
// the aggregate status; the per-check map still reports the rest.
func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	type outcome struct {
		name  string
		check Check
	}
	done := make(chan outcome, len(checks))

	for name, fn := range checks {
		go func() {
			c := Check{Status: StatusHealthy}
			if err := fn(ctx); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = ErrCheckTimeout
				}
				c = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}
			done <- outcome{name: name, check: c}
		}()
	}

	resp := &Response{
		Status: StatusHealthy,
		Checks: make(map[string]Check, len(checks)),
	}
	for range checks {
		o := <-done
		resp.Checks[o.name] = o.check
		if o.check.Status == StatusUnhealthy {
			resp.Status = StatusUnhealthy
		}
	}
	return resp
}
