package hostrouter

import (
	"net/http"
	"strings"
)

// Routes maps host patterns to handlers. A pattern is either a bare
// host ("uploads.acme.com") or a subdomain wildcard ("*.acme.com").
type Routes map[string]http.Handler

// Router dispatches on the request's Host header. Exact patterns win
// over wildcards; anything unmatched goes to the fallback handler.
type Router struct {
	exact    map[string]http.Handler
	wildcard map[string]http.Handler // keyed by the parent after "*."
	fallback http.Handler
}

// New builds a Router from routes. Patterns are trimmed and
// lowercased; empty ones are dropped.
func New(routes Routes, fallback http.Handler) *Router {
	r := &Router{
		exact:    make(map[string]http.Handler),
		wildcard: make(map[string]http.Handler),
		fallback: fallback,
	}

	for pattern, handler := range routes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
		case strings.HasPrefix(pattern, "*."):
			r.wildcard[strings.TrimPrefix(pattern, "*.")] = handler
		default:
			r.exact[pattern] = handler
		}
	}

	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	host := canonicalHost(req.Host)

	if h, ok := r.exact[host]; ok {
		h.ServeHTTP(w, req)
		return
	}

	// A wildcard matches exactly one label in front of its parent:
	// "*.acme.com" takes foo.acme.com but not acme.com itself, and
	// not a.b.acme.com either.
	if _, parent, ok := strings.Cut(host, "."); ok {
		if h, ok := r.wildcard[parent]; ok {
			h.ServeHTTP(w, req)
			return
		}
	}

	r.fallback.ServeHTTP(w, req)
}

// canonicalHost lowercases host and drops a trailing :port. Bracketed
// IPv6 literals keep their brackets.
func canonicalHost(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.ToLower(host)
}
