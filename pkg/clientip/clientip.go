// Package clientip extracts the originating client IP from HTTP requests,
// looking through the proxy headers set by common CDNs and load balancers
// before falling back to the connection's remote address.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Single-value headers set by the edge itself, checked before the
// spoofable X-Forwarded-For chain.
var trustedHeaders = []string{
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Real-IP",
}

// GetIP returns the client IP address for the request. It checks
// CDN-set headers first, then walks X-Forwarded-For left to right,
// and finally falls back to RemoteAddr. Returns an empty string when
// nothing parses as an IP.
func GetIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	for _, h := range trustedHeaders {
		if ip := parseIP(r.Header.Get(h)); ip != nil {
			return ip.String()
		}
	}

	// X-Forwarded-For is "client, proxy1, proxy2"; the first parseable
	// entry is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for part := range strings.SplitSeq(xff, ",") {
			if ip := parseIP(part); ip != nil {
				return ip.String()
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.RemoteAddr)); ip != nil {
		return ip.String()
	}

	return ""
}

// parseIP handles the header value forms seen in the wild: bare IPs,
// host:port pairs, bracketed IPv6, quoted values, and zone suffixes.
func parseIP(value string) net.IP {
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if value == "" || strings.EqualFold(value, "unknown") {
		return nil
	}

	host := value
	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end != -1 {
			host = host[1:end]
		}
	} else if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if zone := strings.Index(host, "%"); zone != -1 {
		host = host[:zone]
	}

	return net.ParseIP(host)
}
