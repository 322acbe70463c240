package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/intake/internal"
)

// DefaultCSRFHeader is the request header carrying the CSRF token.
const DefaultCSRFHeader = "X-CSRF-Token"

// DefaultCSRFFormField is the form field checked when the header is absent.
const DefaultCSRFFormField = "csrf_token"

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	Header       string   // Header checked first for the token
	FormField    string   // Urlencoded form field checked second; "" disables
	SkipPaths    []string // Exact paths exempt from verification
	SkipPrefixes []string // Path prefixes exempt from verification
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFHeader sets the header checked for the token.
func WithCSRFHeader(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		if name != "" {
			cfg.Header = name
		}
	}
}

// WithCSRFFormField sets the form field checked when the header is absent.
// Pass an empty string to disable the form fallback entirely.
func WithCSRFFormField(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.FormField = name
	}
}

// WithCSRFSkipPaths exempts exact request paths from verification.
// Intended for webhook endpoints authenticated by other means.
func WithCSRFSkipPaths(paths ...string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// WithCSRFSkipPrefixes exempts whole path subtrees from verification,
// matching on segment boundaries. Intended for surfaces authenticated
// by bearer tokens instead of cookies, such as the ops API.
func WithCSRFSkipPrefixes(prefixes ...string) CSRFOption {
	return func(cfg *CSRFConfig) {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			cfg.SkipPrefixes = append(cfg.SkipPrefixes, "/"+strings.Trim(p, "/"))
		}
	}
}

// CSRFEntry registers CSRF at the auth stage, after the session loader.
func CSRFEntry(opts ...CSRFOption) internal.Entry {
	return internal.NewEntry(internal.StageAuth, CSRF(opts...),
		internal.WithEntryName("csrf"),
	)
}

// CSRF returns middleware that verifies a per-session CSRF token on unsafe
// methods (everything except GET, HEAD, OPTIONS, TRACE). The token is read
// from the configured header first; for urlencoded bodies the form field is
// checked as a fallback. Multipart bodies are never parsed here so upload
// handlers can still buffer them; multipart clients send the header.
// Requests with no valid token are rejected with 403.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		Header:    DefaultCSRFHeader,
		FormField: DefaultCSRFFormField,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				return next(c)
			}
			path := c.Request().URL.Path
			if _, ok := skip[path]; ok {
				return next(c)
			}
			for _, prefix := range cfg.SkipPrefixes {
				if path == prefix || strings.HasPrefix(path, prefix+"/") {
					return next(c)
				}
			}

			token := c.Header(cfg.Header)
			if token == "" && cfg.FormField != "" && isURLEncoded(c.Header("Content-Type")) {
				token = c.Form(cfg.FormField)
			}

			if !c.VerifyCSRF(token) {
				return internal.ErrForbidden("invalid csrf token")
			}

			return next(c)
		}
	}
}

func isURLEncoded(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mediaType) == "application/x-www-form-urlencoded"
}
