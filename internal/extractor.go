package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource pulls one candidate value out of a request.
// It reports ("", false) when its transport has nothing usable.
type ExtractorSource = func(Context) (string, bool)

// Extractor resolves a request-scoped string by trying sources in order.
// The ops token guard reads its bearer token through one; custom auth
// layers can chain headers, cookies, and session values the same way.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor builds an Extractor over the given sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value any source yields, in source
// order. Sources that report ok with an empty value are skipped.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// present adapts a raw lookup result to the source contract: empty means
// the transport had nothing.
func present(v string) (string, bool) {
	return v, v != ""
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Header(name))
	}
}

// FromQuery reads a query-string parameter.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Query(name))
	}
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.Cookie(name)
		if err != nil {
			return "", false
		}
		return present(v)
	}
}

// FromCookieSigned reads a signed cookie. Tampered or unsigned values
// fail verification and count as absent.
func FromCookieSigned(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.CookieSigned(name)
		if err != nil {
			return "", false
		}
		return present(v)
	}
}

// FromParam reads a route parameter.
func FromParam(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Param(name))
	}
}

// FromForm reads a form field.
func FromForm(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Form(name))
	}
}

// FromSession reads a session value. Non-string values are rendered with
// fmt.Sprint so numeric IDs still extract.
func FromSession(key string) ExtractorSource {
	return func(c Context) (string, bool) {
		val, err := c.SessionValue(key)
		if err != nil || val == nil {
			return "", false
		}
		s, ok := val.(string)
		if !ok {
			s = fmt.Sprint(val)
		}
		return present(s)
	}
}

// FromBearerToken reads the token from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive.
func FromBearerToken() ExtractorSource {
	const scheme = "bearer "
	return func(c Context) (string, bool) {
		auth := c.Header("Authorization")
		if len(auth) <= len(scheme) || !strings.EqualFold(auth[:len(scheme)], scheme) {
			return "", false
		}
		return present(auth[len(scheme):])
	}
}
