package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallbackFilename = "file"

// Filename makes an untrusted upload filename safe for display and
// record keeping. The result contains no path separators, no leading
// dot-segments, no control or invisible characters, and no HTML
// markup. It is a display name only; persisted objects are stored
// under freshly generated identifiers, never under this name.
//
// The input is NFC-normalized, stripped of HTML, reduced to its final
// path component, and collapsed to letters, digits, marks, spaces,
// dots, dashes, and underscores. Everything else becomes a space and
// space runs merge. An input with nothing left yields "file".
func Filename(name string) string {
	name = norm.NFC.String(name)
	name = StripHTML(name)

	// Final path component, both separator conventions.
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			// Bidi overrides and zero-width characters are dropped,
			// not replaced.
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	name = strings.Join(strings.Fields(b.String()), " ")
	name = strings.TrimLeft(name, ". ")
	if name == "" {
		return fallbackFilename
	}
	return name
}
