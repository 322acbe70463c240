package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/pkg/id"
	"github.com/dmitrymomot/intake/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers consulted, in order, for an ID
// assigned by an upstream proxy or client.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Generator mints an ID when no header carries one.
	Generator func() string

	// ResponseHeader is where the chosen ID is echoed to the client.
	ResponseHeader string

	// Headers are consulted in order; the first non-empty value wins.
	Headers []string
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders replaces the header chain consulted for an
// upstream ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator replaces the ID generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header the ID is echoed in.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestIDEntry registers RequestID early in the logging stage, ahead of
// Logging, so access-log lines carry the ID.
func RequestIDEntry(opts ...RequestIDOption) internal.Entry {
	return internal.NewEntry(internal.StageLogging, RequestID(opts...),
		internal.WithEntryName("requestid"),
		internal.WithEntryPriority(internal.PriorityEarly),
	)
}

// RequestID returns middleware that tags every request with an ID: the
// first non-empty value among the configured headers, or a freshly minted
// ULID. The ID lands in the request context, on the response, and, through
// RequestIDExtractor, on every log line the request writes. Keeping an
// upstream ID lets a failed upload be traced across the proxy and this
// service with one value.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      id.NewULID,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			reqID := firstHeader(c, cfg.Headers)
			if reqID == "" {
				reqID = cfg.Generator()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader(cfg.ResponseHeader, reqID)

			return next(c)
		}
	}
}

// firstHeader returns the first non-empty value among names.
func firstHeader(c internal.Context, names []string) string {
	for _, name := range names {
		if v := c.Header(name); v != "" {
			return v
		}
	}
	return ""
}

// GetRequestID returns the request's ID, or "" when RequestID has not run.
func GetRequestID(c internal.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor for WithLogger that adds
// request_id to every log record written under the request's context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
