package storage

// Option adjusts a single Put call.
type Option func(*putOptions)

type putOptions struct {
	// Key pins the object name exactly; everything below shapes the
	// generated one instead.
	key    string
	tenant string
	prefix string

	contentType string
	acl         ACL
}

// WithKey stores the upload under exactly this key instead of a generated
// one. The caller owns collision safety; a repeated key overwrites.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix groups generated keys under a path segment, placed after the
// tenant and before the ULID. WithPrefix("avatars") yields
// "avatars/{ulid}.{ext}".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithTenant isolates the upload under a per-tenant leading segment, so
// "acme" plus WithPrefix("avatars") yields "acme/avatars/{ulid}.{ext}".
// Listing a tenant's files then reduces to a key-prefix scan.
func WithTenant(id string) Option {
	return func(o *putOptions) {
		o.tenant = id
	}
}

// WithContentType records the declared MIME type with the object. Callers
// that already validated the upload pass their verdict here; without it the
// backend sniffs the leading bytes, for metadata only.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithACL overrides the configured default ACL for this one upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}
