package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/intake/internal"
)

// DefaultStackSize caps the captured stack trace, in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Skip stack capture entirely
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables stack capture; panics are logged
// with the panic value only.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// RecoverEntry registers Recover at the error-handling stage so it wraps
// every later stage and catches their panics.
func RecoverEntry(opts ...RecoverOption) internal.Entry {
	return internal.NewEntry(internal.StageErrors, Recover(opts...),
		internal.WithEntryName("recover"),
	)
}

// Recover returns middleware that turns handler panics into a PanicError
// for the global ErrorHandler, after logging the panic value and stack.
// The request keeps its connection; only the response becomes a 500.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
				}

				if stack == nil {
					c.LogError("panic recovered", "panic", r)
				} else {
					c.LogError("panic recovered", "panic", r, "stack", string(stack))
				}

				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}
