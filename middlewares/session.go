package middlewares

import (
	"errors"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/pkg/session"
)

// SessionConfig configures the session loader middleware.
type SessionConfig struct {
	AutoCreate bool // Create a session for first-time visitors
}

// SessionOption configures SessionConfig.
type SessionOption func(*SessionConfig)

// WithSessionAutoCreate creates a session when the request has none, so
// CSRF tokens and session values work on the very first response.
func WithSessionAutoCreate() SessionOption {
	return func(cfg *SessionConfig) {
		cfg.AutoCreate = true
	}
}

// SessionEntry registers Session early in the auth stage, ahead of CSRF,
// so token verification sees a loaded session.
func SessionEntry(opts ...SessionOption) internal.Entry {
	return internal.NewEntry(internal.StageAuth, Session(opts...),
		internal.WithEntryName("session"),
		internal.WithEntryPriority(internal.PriorityEarly),
	)
}

// Session returns middleware that loads the request session before the
// handler runs. A missing, stale, or expired session is not an error: the
// request continues anonymous. When sessions are not configured on the app,
// the middleware is a no-op.
func Session(opts ...SessionOption) internal.Middleware {
	cfg := &SessionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			sess, err := c.Session()
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNotConfigured):
				return next(c)
			case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
				// Stale cookie; continue anonymous.
			default:
				c.LogWarn("session load failed", "error", err)
			}

			if sess == nil && cfg.AutoCreate {
				if err := c.InitSession(); err != nil {
					c.LogError("session init failed", "error", err)
				}
			}

			return next(c)
		}
	}
}
