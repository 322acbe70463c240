package storage

import (
	"context"
	"io"
)

// Storage is the backend contract a disk satisfies. Two implementations
// ship with the service: S3Storage for S3-compatible object stores and
// LocalStorage for a directory on the host. Handlers work purely through
// this interface, so a deployment can mix both.
type Storage interface {
	// Put streams r into the backend and reports what was stored. Size
	// becomes the Content-Length; options override key, tenant, prefix,
	// ACL, and content type.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get opens a stored file. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports presence without transferring the body.
	Exists(ctx context.Context, key string) (bool, error)

	// MimeType returns the content type recorded for a stored file, or
	// ErrNotFound when the key is absent.
	MimeType(ctx context.Context, key string) (string, error)

	// Delete removes a stored file. Deleting an absent key is no error.
	Delete(ctx context.Context, key string) error

	// URL returns an address the file can be fetched from: presigned for
	// private files, plain for public ones. Options control expiry and
	// download disposition.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds the connection settings for an S3-compatible disk.
type Config struct {
	// Bucket, AccessKey, and SecretKey are required.
	Bucket    string
	AccessKey string
	SecretKey string

	// Endpoint points the client at a non-AWS store (MinIO, Spaces, R2).
	// PathStyle must be true for MinIO and other path-addressed stores.
	Endpoint  string
	PathStyle bool

	// Region defaults to us-east-1.
	Region string

	// PublicURL, when set, fronts public files with a CDN base instead of
	// the bucket's own address.
	PublicURL string

	// DefaultACL applies to uploads that do not choose one. Default: private.
	DefaultACL ACL

	// MaxDownloadSize caps PutFromURL transfers. Default: 50MB.
	MaxDownloadSize int64
}

// FileInfo describes a stored file.
type FileInfo struct {
	Key         string // storage key, slash-separated
	ContentType string // declared or sniffed MIME type
	ACL         ACL
	Size        int64 // bytes
}

// ACL is the access level a file is stored under.
type ACL string

const (
	// ACLPrivate files are reachable only through presigned URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead files are readable by anyone holding the URL.
	ACLPublicRead ACL = "public-read"
)

const (
	DefaultRegion          = "us-east-1"
	DefaultMaxDownloadSize = 50 << 20
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
	if c.MaxDownloadSize == 0 {
		c.MaxDownloadSize = DefaultMaxDownloadSize
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
