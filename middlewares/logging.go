package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/intake/internal"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	SkipPaths []string // Paths that are never logged (health probes, metrics)
}

// LoggingOption configures LoggingConfig.
type LoggingOption func(*LoggingConfig)

// WithLoggingSkipPaths excludes exact request paths from access logging.
func WithLoggingSkipPaths(paths ...string) LoggingOption {
	return func(cfg *LoggingConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// LoggingEntry registers Logging at the logging stage, after RequestID.
func LoggingEntry(opts ...LoggingOption) internal.Entry {
	return internal.NewEntry(internal.StageLogging, Logging(opts...),
		internal.WithEntryName("logging"),
	)
}

// Logging returns middleware that writes one structured access-log line per
// request: method, path, status, response bytes, duration. 5xx responses log
// at error level, other 4xx at warn, everything else at info. Request ID is
// automatically included via RequestIDExtractor() if configured.
func Logging(opts ...LoggingOption) internal.Middleware {
	cfg := &LoggingConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			// Handler errors are rendered at the route level before next
			// returns, so the wrapped writer already holds the final status.
			// An error surfacing here came from an inner middleware that
			// short-circuited before anything was written.
			status := http.StatusOK
			var size int64
			rw := c.ResponseWriter()
			if rw != nil {
				size = rw.Size()
			}
			switch {
			case rw != nil && rw.Written():
				status = rw.Status()
			case err != nil:
				if httpErr := internal.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", size),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			switch {
			case status >= http.StatusInternalServerError:
				c.LogError("request completed", attrs...)
			case status >= http.StatusBadRequest:
				c.LogWarn("request completed", attrs...)
			default:
				c.LogInfo("request completed", attrs...)
			}

			return err
		}
	}
}
