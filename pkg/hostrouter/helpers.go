package hostrouter

import (
	"net/http"
	"strings"
)

// GetDomain returns the request's host, lowercased and without the
// port: "Uploads.Acme.COM:8080" becomes "uploads.acme.com", and
// "[::1]:8080" becomes "[::1]".
func GetDomain(r *http.Request) string {
	return canonicalHost(r.Host)
}

// GetSubdomain returns the labels in front of base in the request
// host. Against base "files.example.com", the host
// "acme.files.example.com" yields "acme" and a deeper host yields the
// dotted remainder. A host that is base itself, or not under base at
// all, yields "". Comparison is case-insensitive and ignores the port.
func GetSubdomain(r *http.Request, base string) string {
	host := canonicalHost(r.Host)
	sub, found := strings.CutSuffix(host, "."+strings.ToLower(base))
	if !found {
		return ""
	}
	return sub
}
