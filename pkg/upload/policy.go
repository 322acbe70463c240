package upload

import (
	"fmt"
	"slices"
	"strings"
)

// Policy defines the acceptance rules for one class of uploads. A Policy
// is a plain value, constructed once and never mutated afterwards, so it
// is safe to share across concurrent requests.
//
// Validation trusts the declared filename and MIME type plus the payload
// size. It deliberately never sniffs magic bytes: content inspection is
// a serving-time concern, not an acceptance gate, and pretending
// otherwise gives a false sense of security against polyglot files.
type Policy struct {
	// MaxFileSize is the payload limit in bytes. Zero means no limit.
	MaxFileSize int64

	// AllowedExtensions lists acceptable filename extensions,
	// lower-cased without the leading dot. Empty means any extension.
	AllowedExtensions []string

	// AllowedMIMETypes lists acceptable declared types, exact
	// ("image/png") or wildcard ("image/*"). Empty means any type.
	AllowedMIMETypes []string
}

// Validate checks an upload against the policy. It returns nil when the
// upload is accepted, otherwise a *ValidationError whose Message names
// the violated constraint. Checks run in order and stop at the first
// failure: size, then extension, then declared MIME type.
func (p Policy) Validate(data []byte, filename, declaredType string) error {
	if p.MaxFileSize > 0 && int64(len(data)) > p.MaxFileSize {
		return &ValidationError{
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", len(data), p.MaxFileSize),
		}
	}

	if len(p.AllowedExtensions) > 0 {
		ext := fileExt(filename)
		if !slices.Contains(p.AllowedExtensions, ext) {
			return &ValidationError{
				Code:    ErrCodeExtensionDenied,
				Message: fmt.Sprintf("file extension %q is not allowed", ext),
			}
		}
	}

	if len(p.AllowedMIMETypes) > 0 && declaredType != "" {
		if !matchesMIME(declaredType, p.AllowedMIMETypes) {
			return &ValidationError{
				Code:    ErrCodeInvalidMIME,
				Message: fmt.Sprintf("file type %q is not allowed", declaredType),
			}
		}
	}

	return nil
}

// WithMaxSize returns a copy of the policy with a different size limit.
// Used when a request narrows the configured policy.
func (p Policy) WithMaxSize(maxBytes int64) Policy {
	p.MaxFileSize = maxBytes
	return p
}

// WithMIMETypes returns a copy of the policy with a different declared
// type allow-list.
func (p Policy) WithMIMETypes(types ...string) Policy {
	p.AllowedMIMETypes = normalizeMIMEList(types)
	return p
}

// ImagePolicy returns the acceptance rules for image uploads.
func ImagePolicy() Policy {
	return Policy{
		MaxFileSize:       10 << 20,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
		AllowedMIMETypes:  []string{"image/*"},
	}
}

// DocumentPolicy returns the acceptance rules for document uploads.
// Covers PDF, Word, Excel, PowerPoint, text, and CSV files.
func DocumentPolicy() Policy {
	return Policy{
		MaxFileSize: 25 << 20,
		AllowedExtensions: []string{
			"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "csv", "rtf",
		},
		AllowedMIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"text/plain",
			"text/csv",
			"application/rtf",
		},
	}
}

// fileExt returns the lower-cased extension after the last dot, without
// the dot itself. A name with no dot has an empty extension.
func fileExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// matchesMIME checks if a declared MIME type matches any of the allowed
// patterns. Supports wildcards like "image/*".
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)

	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))

		if mimeType == pattern {
			return true
		}

		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "*")
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}
	}

	return false
}

// normalizeMIME strips parameters and lower-cases a MIME type, so
// "Image/PNG; charset=binary" compares as "image/png".
func normalizeMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// normalizeExtensions lower-cases extensions and strips leading dots,
// dropping empty entries. Returns nil when nothing survives.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(e)), ".")
		if e != "" {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeMIMEList lower-cases and trims MIME patterns, dropping empty
// entries. Returns nil when nothing survives.
func normalizeMIMEList(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
