package storage

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dmitrymomot/intake/pkg/id"
)

// unsafeSegmentChars matches everything a key segment may not carry.
var unsafeSegmentChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// cleanSegment reduces a caller-supplied segment (tenant, prefix) to a
// form that cannot traverse or break an object key.
func cleanSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = unsafeSegmentChars.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}

// objectKey builds a fresh storage key: {tenant}/{prefix}/{ulid}{ext}.
// Tenant and prefix are optional. The ULID keeps keys collision-free and
// listings in upload order; unknown content types get a .bin suffix.
func objectKey(tenant, prefix, contentType string) string {
	ext := ExtFromMIME(contentType)
	if ext == "" {
		ext = ".bin"
	}

	var b strings.Builder
	if tenant != "" {
		b.WriteString(cleanSegment(tenant))
		b.WriteByte('/')
	}
	if prefix != "" {
		b.WriteString(cleanSegment(prefix))
		b.WriteByte('/')
	}
	b.WriteString(id.NewULID())
	b.WriteString(ext)
	return b.String()
}
