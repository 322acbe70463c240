package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/dmitrymomot/intake/internal"
)

// DefaultOpsPathPrefix is the path prefix guarded by OpsToken.
const DefaultOpsPathPrefix = "/ops"

// OpsTokenConfig configures the operational token middleware.
type OpsTokenConfig struct {
	PathPrefix string             // Guarded path prefix
	Sources    internal.Extractor // Token lookup chain
	sourcesSet bool
}

// OpsTokenOption configures OpsTokenConfig.
type OpsTokenOption func(*OpsTokenConfig)

// WithOpsPathPrefix sets the guarded path prefix. Defaults to "/ops".
func WithOpsPathPrefix(prefix string) OpsTokenOption {
	return func(cfg *OpsTokenConfig) {
		if prefix != "" {
			cfg.PathPrefix = "/" + strings.Trim(prefix, "/")
		}
	}
}

// WithOpsTokenSources replaces the token lookup chain. The default reads
// "Authorization: Bearer <token>". Deployments whose proxy consumes the
// Authorization header can read a custom header or query parameter instead.
func WithOpsTokenSources(sources ...internal.ExtractorSource) OpsTokenOption {
	return func(cfg *OpsTokenConfig) {
		if len(sources) > 0 {
			cfg.Sources = internal.NewExtractor(sources...)
			cfg.sourcesSet = true
		}
	}
}

// OpsTokenEntry registers OpsToken at the privileged-api stage.
func OpsTokenEntry(token string, opts ...OpsTokenOption) internal.Entry {
	return internal.NewEntry(internal.StagePrivileged, OpsToken(token, opts...),
		internal.WithEntryName("opstoken"),
	)
}

// OpsToken returns middleware that guards operational endpoints with a
// static token. Requests outside the configured path prefix pass through
// untouched. Guarded requests must present the token through one of the
// configured sources; the comparison is constant-time. An empty token
// fails closed: every guarded request is rejected.
func OpsToken(token string, opts ...OpsTokenOption) internal.Middleware {
	cfg := &OpsTokenConfig{PathPrefix: DefaultOpsPathPrefix}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.sourcesSet {
		cfg.Sources = internal.NewExtractor(internal.FromBearerToken())
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			if path != cfg.PathPrefix && !strings.HasPrefix(path, cfg.PathPrefix+"/") {
				return next(c)
			}

			if token == "" {
				return internal.ErrUnauthorized("operational api disabled")
			}

			presented, ok := cfg.Sources.Extract(c)
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return internal.ErrUnauthorized("invalid ops token")
			}

			return next(c)
		}
	}
}
