package formdata

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Errors.
var (
	ErrNotMultipart = errors.New("formdata: content type is not multipart/form-data")
	ErrNoBoundary   = errors.New("formdata: boundary parameter missing")
)

var (
	crlf     = []byte("\r\n")
	crlfcrlf = []byte("\r\n\r\n")
)

// Part is a single decoded multipart section. A non-empty Filename marks
// a file part; form fields leave it empty. Data aliases the input buffer
// passed to Decode, so it stays valid only as long as that buffer does.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
}

// IsFile reports whether the part carries a file payload.
func (p Part) IsFile() bool {
	return p.Filename != ""
}

// Value returns the part payload as a string. Intended for form fields.
func (p Part) Value() string {
	return string(p.Data)
}

// Boundary extracts the boundary token from a multipart/form-data
// Content-Type header value.
func Boundary(contentType string) (string, error) {
	if contentType == "" {
		return "", ErrNotMultipart
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotMultipart, contentType)
	}
	if mediaType != "multipart/form-data" {
		return "", fmt.Errorf("%w: %q", ErrNotMultipart, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}

// Decode splits a buffered multipart/form-data body into its parts.
//
// The scan is byte-exact: every occurrence of the literal marker
// "--"+boundary delimits a candidate span, and each span that contains a
// header block terminated by an empty line yields one part. Payload
// slices alias body directly; binary data is never re-encoded.
//
// Decode never fails. Truncated or malformed input yields the well-formed
// parts found before the damage: a span without a terminated header block
// is skipped, nothing after the last marker is parsed, and a missing
// closing boundary simply ends the part list early. A part whose headers
// lack a Content-Disposition comes back with empty Name and Filename;
// callers decide what an anonymous part means.
//
// Marker matching is literal, so a boundary token occurring inside binary
// payload data splits the part at that point. The wire format prevents
// this by construction (boundaries are chosen to not collide with
// content), and Decode inherits that guarantee rather than re-verifying
// it.
func Decode(body []byte, boundary string) []Part {
	if len(body) == 0 || boundary == "" {
		return nil
	}

	marker := []byte("--" + boundary)

	var offsets []int
	for pos := 0; ; {
		i := bytes.Index(body[pos:], marker)
		if i < 0 {
			break
		}
		offsets = append(offsets, pos+i)
		pos += i + len(marker)
	}

	var parts []Part
	for i := 0; i+1 < len(offsets); i++ {
		span := body[offsets[i]+len(marker) : offsets[i+1]]
		if part, ok := parsePart(span); ok {
			parts = append(parts, part)
		}
	}
	return parts
}

// parsePart splits a candidate span into header block and payload.
// Spans without a header/payload separator are reported as not-a-part.
func parsePart(span []byte) (Part, bool) {
	sep := bytes.Index(span, crlfcrlf)
	if sep < 0 {
		return Part{}, false
	}

	// The payload runs to the next marker; the CRLF that precedes the
	// marker belongs to the framing, not the data.
	payload := bytes.TrimSuffix(span[sep+len(crlfcrlf):], crlf)

	part := Part{Data: payload}
	for line := range strings.SplitSeq(string(span[:sep]), "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content-disposition":
			part.Name, part.Filename = parseDisposition(value)
		case "content-type":
			part.ContentType = value
		}
	}
	return part, true
}

// parseDisposition extracts the name and filename parameters from a
// Content-Disposition value, honoring quoted-string backslash escapes.
// Unparseable values read as an absent disposition.
func parseDisposition(value string) (name, filename string) {
	_, params, err := mime.ParseMediaType(value)
	if err != nil {
		return "", ""
	}
	return params["name"], params["filename"]
}
