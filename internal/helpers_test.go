package internal_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/internal"
)

// stubContext satisfies Context through the nil embedded interface. Only
// the accessors the typed helpers call are backed; anything else panics,
// which is exactly what a test reaching past the helpers deserves.
type stubContext struct {
	internal.Context

	params map[string]string
	query  url.Values
	values map[any]any
}

func (c *stubContext) Param(name string) string { return c.params[name] }
func (c *stubContext) Query(name string) string { return c.query.Get(name) }
func (c *stubContext) Set(key, value any)       { c.values[key] = value }
func (c *stubContext) Get(key any) any          { return c.values[key] }

func routeCtx(params map[string]string) *stubContext {
	return &stubContext{params: params, values: map[any]any{}}
}

func queryCtx(t *testing.T, rawQuery string) *stubContext {
	t.Helper()
	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return &stubContext{query: q, values: map[any]any{}}
}

func TestParam(t *testing.T) {
	t.Parallel()

	t.Run("converts to the requested type", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(map[string]string{
			"disk":   "uploads",
			"limit":  "250",
			"cursor": "9876543210",
			"ratio":  "0.75",
			"force":  "true",
		})

		require.Equal(t, "uploads", internal.Param[string](c, "disk"))
		require.Equal(t, 250, internal.Param[int](c, "limit"))
		require.Equal(t, int64(9876543210), internal.Param[int64](c, "cursor"))
		require.InDelta(t, 0.75, internal.Param[float64](c, "ratio"), 0.001)
		require.True(t, internal.Param[bool](c, "force"))
	})

	t.Run("bool accepts the strconv spellings", func(t *testing.T) {
		t.Parallel()

		for raw, want := range map[string]bool{
			"true": true, "TRUE": true, "1": true,
			"false": false, "0": false,
		} {
			c := routeCtx(map[string]string{"force": raw})
			require.Equal(t, want, internal.Param[bool](c, "force"), "raw %q", raw)
		}
	})

	t.Run("unparseable values collapse to zero", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(map[string]string{
			"limit": "soon",
			"ratio": "n/a",
			"force": "maybe",
		})

		require.Zero(t, internal.Param[int](c, "limit"))
		require.Zero(t, internal.Param[float64](c, "ratio"))
		require.False(t, internal.Param[bool](c, "force"))

		// int refuses float syntax rather than truncating.
		c = routeCtx(map[string]string{"limit": "3.14"})
		require.Zero(t, internal.Param[int](c, "limit"))
	})

	t.Run("absent params give the zero value", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(nil)
		require.Empty(t, internal.Param[string](c, "disk"))
		require.Zero(t, internal.Param[int](c, "limit"))
		require.Zero(t, internal.Param[int64](c, "cursor"))
		require.Zero(t, internal.Param[float64](c, "ratio"))
		require.False(t, internal.Param[bool](c, "force"))
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("converts to the requested type", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "disk=s3&page=5&after=9876543210&min_score=19.99&trashed=true")

		require.Equal(t, "s3", internal.Query[string](c, "disk"))
		require.Equal(t, 5, internal.Query[int](c, "page"))
		require.Equal(t, int64(9876543210), internal.Query[int64](c, "after"))
		require.InDelta(t, 19.99, internal.Query[float64](c, "min_score"), 0.001)
		require.True(t, internal.Query[bool](c, "trashed"))
	})

	t.Run("negative numbers survive", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "page=-1&offset=-100")
		require.Equal(t, -1, internal.Query[int](c, "page"))
		require.Equal(t, int64(-100), internal.Query[int64](c, "offset"))
	})

	t.Run("missing, blank, and junk all read as zero", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "page=&sort=abc&trashed=yes")
		require.Zero(t, internal.Query[int](c, "page"))
		require.Empty(t, internal.Query[string](c, "absent"))
		require.Zero(t, internal.Query[int](c, "sort"))
		require.False(t, internal.Query[bool](c, "trashed"))
	})
}

func TestQueryDefault(t *testing.T) {
	t.Parallel()

	t.Run("absent params fall back", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "")
		require.Equal(t, 1, internal.QueryDefault[int](c, "page", 1))
		require.Equal(t, "name", internal.QueryDefault[string](c, "sort", "name"))
		require.Equal(t, int64(100), internal.QueryDefault[int64](c, "after", 100))
		require.InDelta(t, 0.5, internal.QueryDefault[float64](c, "min_score", 0.5), 0.001)
		require.True(t, internal.QueryDefault[bool](c, "trashed", true))
	})

	t.Run("present params win over the default", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "page=5&sort=size&after=200&min_score=19.99&trashed=false")
		require.Equal(t, 5, internal.QueryDefault[int](c, "page", 1))
		require.Equal(t, "size", internal.QueryDefault[string](c, "sort", "name"))
		require.Equal(t, int64(200), internal.QueryDefault[int64](c, "after", 100))
		require.InDelta(t, 19.99, internal.QueryDefault[float64](c, "min_score", 0.5), 0.001)
		require.False(t, internal.QueryDefault[bool](c, "trashed", true))
	})

	t.Run("blank and unparseable values also fall back", func(t *testing.T) {
		t.Parallel()

		c := queryCtx(t, "page=")
		require.Equal(t, 1, internal.QueryDefault[int](c, "page", 1))

		c = queryCtx(t, "page=abc")
		require.Equal(t, 1, internal.QueryDefault[int](c, "page", 1))
	})
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type tenantKey struct{}

	t.Run("returns the stored value when types line up", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(nil)
		c.Set(tenantKey{}, "acme")
		require.Equal(t, "acme", internal.ContextValue[string](c, tenantKey{}))
	})

	t.Run("type mismatch reads as the zero value", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(nil)
		c.Set(tenantKey{}, 42)
		require.Empty(t, internal.ContextValue[string](c, tenantKey{}))
	})

	t.Run("missing keys read as the zero value", func(t *testing.T) {
		t.Parallel()

		c := routeCtx(nil)
		require.Empty(t, internal.ContextValue[string](c, tenantKey{}))
		require.Zero(t, internal.ContextValue[int](c, tenantKey{}))
		require.False(t, internal.ContextValue[bool](c, tenantKey{}))
	})

	t.Run("struct values round-trip whole", func(t *testing.T) {
		t.Parallel()

		type uploadMeta struct {
			Disk string
			Size int64
		}

		c := routeCtx(nil)
		c.Set(tenantKey{}, uploadMeta{Disk: "s3", Size: 5 << 20})
		require.Equal(t, uploadMeta{Disk: "s3", Size: 5 << 20}, internal.ContextValue[uploadMeta](c, tenantKey{}))

		require.Zero(t, internal.ContextValue[uploadMeta](routeCtx(nil), tenantKey{}))
	})
}
