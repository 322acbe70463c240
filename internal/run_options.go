package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/intake/pkg/hostrouter"
)

// RunOption adjusts how Run hosts an app: address, logging, shutdown
// behavior, lifecycle hooks, and extra domains.
type RunOption func(*runConfig)

// runConfig is the accumulated result of the RunOptions.
type runConfig struct {
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	baseCtx         context.Context
	domains         hostrouter.Routes
}

func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Address overrides the listen address. The default is ":8080"; an empty
// string keeps it.
func Address(addr string) RunOption {
	return func(c *runConfig) {
		if addr != "" {
			c.address = addr
		}
	}
}

// Logger gives the runtime somewhere to report startup and shutdown.
// Without one the server runs silent.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds graceful shutdown. The HTTP drain and the
// shutdown hooks share one window, 30 seconds unless changed here.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook registers a function to run after the listener is bound
// but before the server starts accepting requests. A failing hook aborts
// startup. Use this for janitor schedules, cache warmup, and the like.
//
// Example:
//
//	intake.StartupHook(jan.Start)
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook registers cleanup to run after the server drains. Hooks
// run in registration order, each under the shutdown timeout.
//
// Example:
//
//	intake.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext replaces context.Background() as the root the server
// derives its signal context from. Tests use it to drive shutdown
// without sending signals.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// Domain maps a host pattern to an additional app. The app passed to Run
// serves requests that match no pattern.
// Patterns: "api.example.com" (exact) or "*.example.com" (wildcard).
//
// Example:
//
//	err := intake.Run(webApp,
//	    intake.Domain("uploads.acme.com", uploadApp),
//	)
func Domain(pattern string, app *App) RunOption {
	return func(c *runConfig) {
		if pattern == "" || app == nil {
			return
		}
		if c.domains == nil {
			c.domains = make(hostrouter.Routes)
		}
		c.domains[pattern] = app.Router()
	}
}
