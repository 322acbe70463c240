package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/middlewares"
)

// runRequestID sends a request carrying headers through the middleware and
// returns the recorder plus the ID the handler saw in its context.
func runRequestID(t *testing.T, headers map[string]string, opts ...middlewares.RequestIDOption) (*httptest.ResponseRecorder, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/files/report.pdf", nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rec := httptest.NewRecorder()

	var seen string
	handler := middlewares.RequestID(opts...)(func(c internal.Context) error {
		seen = middlewares.GetRequestID(c)
		return nil
	})

	require.NoError(t, handler(newTestContext(rec, req)))
	return rec, seen
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("mints a ULID when the client sends none", func(t *testing.T) {
		t.Parallel()

		rec, seen := runRequestID(t, nil)

		assert.Len(t, seen, 26)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps an upstream tracing ID", func(t *testing.T) {
		t.Parallel()

		rec, seen := runRequestID(t, map[string]string{"X-Request-ID": "edge-7f3a"})

		assert.Equal(t, "edge-7f3a", seen)
		assert.Equal(t, "edge-7f3a", rec.Header().Get("X-Request-ID"))
	})

	t.Run("falls through the default header chain", func(t *testing.T) {
		t.Parallel()

		_, seen := runRequestID(t, map[string]string{"X-Correlation-ID": "corr-9b21"})
		assert.Equal(t, "corr-9b21", seen)

		// X-Request-ID sits earlier in the chain and wins.
		_, seen = runRequestID(t, map[string]string{
			"X-Request-ID":     "edge-7f3a",
			"X-Correlation-ID": "corr-9b21",
		})
		assert.Equal(t, "edge-7f3a", seen)
	})

	t.Run("custom sources replace the default chain", func(t *testing.T) {
		t.Parallel()

		rec, seen := runRequestID(t,
			map[string]string{"X-Request-ID": "edge-7f3a", "X-Amzn-Trace-Id": "Root=1-67891233"},
			middlewares.WithRequestIDHeaders("X-Amzn-Trace-Id"),
		)

		assert.Equal(t, "Root=1-67891233", seen)
		assert.Equal(t, "Root=1-67891233", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		rec, seen := runRequestID(t, nil,
			middlewares.WithRequestIDGenerator(func() string { return "fixed-01" }),
			middlewares.WithRequestIDResponseHeader("X-Upload-Trace"),
		)

		assert.Equal(t, "fixed-01", seen)
		assert.Equal(t, "fixed-01", rec.Header().Get("X-Upload-Trace"))
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	// Without the middleware there is nothing to find.
	req := httptest.NewRequest(http.MethodGet, "/files/report.pdf", nil)
	ctx := newTestContext(httptest.NewRecorder(), req)

	assert.Empty(t, middlewares.GetRequestID(ctx))
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	t.Run("stamps request_id on log records", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/files/report.pdf", nil)
		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, req)

		handler := middlewares.RequestID()(func(internal.Context) error { return nil })
		require.NoError(t, handler(ctx))

		attr, ok := middlewares.RequestIDExtractor()(ctx.Context())
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		assert.Equal(t, rec.Header().Get("X-Request-ID"), attr.Value.String())
	})

	t.Run("reports nothing on an unstamped context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/files/report.pdf", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)

		_, ok := middlewares.RequestIDExtractor()(ctx.Context())
		assert.False(t, ok)
	})
}
