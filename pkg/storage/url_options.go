package storage

import "time"

// DefaultURLExpiry bounds presigned links when the caller does not choose
// an expiry. Fifteen minutes covers a page render plus the click.
const DefaultURLExpiry = 15 * time.Minute

// URLOption adjusts a single URL call.
type URLOption func(*urlOptions)

type urlOptions struct {
	expiry       time.Duration
	downloadName string

	// At most one of these wins; forceSigned is checked first.
	forceSigned bool
	forcePublic bool
}

// WithExpiry sets how long a presigned link stays valid.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		o.expiry = d
	}
}

// WithDownload makes the link serve the object as an attachment saved under
// filename. The disposition rides in signed query parameters, so this
// implies a presigned URL.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.forceSigned = true
	}
}

// WithSigned presigns the link even for objects a public URL would serve.
// A positive expiry overrides the default.
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.forceSigned = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}

// WithPublic builds a plain unsigned URL. The link only resolves when the
// object or bucket actually allows public reads.
func WithPublic() URLOption {
	return func(o *urlOptions) {
		o.forcePublic = true
	}
}
