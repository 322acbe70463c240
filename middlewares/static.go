package middlewares

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/dmitrymomot/intake/internal"
)

// StaticConfig configures the static file middleware.
type StaticConfig struct {
	CacheControl string // Cache-Control header value for served files
}

// StaticOption configures StaticConfig.
type StaticOption func(*StaticConfig)

// WithStaticCacheControl overrides the Cache-Control header.
// Defaults to "public, max-age=3600".
func WithStaticCacheControl(value string) StaticOption {
	return func(cfg *StaticConfig) {
		cfg.CacheControl = value
	}
}

// StaticEntry registers Static at the asset-serving stage.
func StaticEntry(prefix string, fsys fs.FS, opts ...StaticOption) internal.Entry {
	return internal.NewEntry(internal.StageAssets, Static(prefix, fsys, opts...),
		internal.WithEntryName("static"),
	)
}

// Static returns middleware that serves files from fsys under the given URL
// prefix and short-circuits the pipeline on a match: asset requests never
// reach session or auth work. Non-matching paths and methods other than
// GET/HEAD pass through untouched. Directory listings are blocked.
func Static(prefix string, fsys fs.FS, opts ...StaticOption) internal.Middleware {
	cfg := &StaticConfig{
		CacheControl: "public, max-age=3600",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	prefix = "/" + strings.Trim(prefix, "/")
	fileServer := http.StripPrefix(prefix, http.FileServerFS(fsys))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				return next(c)
			}
			if r.URL.Path != prefix && !strings.HasPrefix(r.URL.Path, prefix+"/") {
				return next(c)
			}

			w := c.Response()
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return nil
			}

			w.Header().Set("Cache-Control", cfg.CacheControl)
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fileServer.ServeHTTP(w, r)
			return nil
		}
	}
}
