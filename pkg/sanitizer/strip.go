package sanitizer

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	strictOnce   sync.Once
)

// StripHTML removes all markup and returns plain text. Uploaded
// filenames and any other client-supplied strings that end up in JSON
// responses or records go through this before display. Entities the
// policy escapes along the way are decoded back, so "Q&A" survives as
// "Q&A" rather than "Q&amp;A".
func StripHTML(s string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
