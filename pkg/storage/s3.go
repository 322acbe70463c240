package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage implements Storage on S3-compatible object storage: AWS S3
// itself, or MinIO, DigitalOcean Spaces, and Cloudflare R2 behind a
// custom endpoint.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

var _ Storage = (*S3Storage)(nil)

// New creates an S3Storage from cfg. Credentials are static; the client
// never falls through to the ambient AWS credential chain.
func New(cfg Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

// Put streams r into the bucket and returns the stored file's info. The
// content type comes from WithContentType when given and is sniffed from
// the first bytes otherwise; the key comes from WithKey when given and is
// minted as {tenant}/{prefix}/{ulid}{ext} otherwise.
func (s *S3Storage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{acl: s.cfg.DefaultACL}
	for _, opt := range opts {
		opt(o)
	}

	contentType, body, err := resolveBody(r, o.contentType)
	if err != nil {
		return nil, err
	}

	key := o.key
	if key == "" {
		key = objectKey(o.tenant, o.prefix, contentType)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           cannedACL(o.acl),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// resolveBody settles the upload's content type and returns a seekable
// body. The SDK needs a ReadSeeker for request signing, so a plain reader
// paired with an explicit content type is buffered; without one, the MIME
// sniffer buffers as a side effect of reading the head.
func resolveBody(r io.Reader, explicit string) (string, io.ReadSeeker, error) {
	if explicit == "" {
		ct, rs := detectMIMESeekable(r)
		return ct, rs, nil
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		return explicit, rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read input: %w", err)
	}
	return explicit, bytes.NewReader(data), nil
}

func cannedACL(acl ACL) types.ObjectCannedACL {
	if acl == ACLPublicRead {
		return types.ObjectCannedACLPublicRead
	}
	return types.ObjectCannedACLPrivate
}

// Get retrieves a file from the bucket.
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return out.Body, nil
}

// Exists reports whether a file is present in the bucket.
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.HeadObject(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// MimeType returns the stored content type for a file.
func (s *S3Storage) MimeType(ctx context.Context, key string) (string, error) {
	info, err := s.HeadObject(ctx, key)
	if err != nil {
		return "", err
	}
	if info.ContentType == "" {
		return MIMEOctetStream, nil
	}
	return info.ContentType, nil
}

// Delete removes a file from the bucket.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// URL returns a URL for the file: presigned with DefaultURLExpiry unless
// WithPublic asks for the unsigned public form.
func (s *S3Storage) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	o := &urlOptions{expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(o)
	}

	if o.forcePublic {
		return s.publicURL(key), nil
	}
	return s.signedURL(ctx, key, o)
}

// publicURL joins the configured public base with the key. Without a
// PublicURL the bucket's own address serves: the custom endpoint when one
// is set, the regional AWS hostname otherwise.
func (s *S3Storage) publicURL(key string) string {
	switch {
	case s.cfg.PublicURL != "":
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		base := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if s.cfg.PathStyle {
			return base + "/" + s.cfg.Bucket + "/" + key
		}
		return base + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}

// signedURL presigns a GET for the key. A download name rides along as a
// Content-Disposition response override, so the same stored object can be
// served back under its original filename.
func (s *S3Storage) signedURL(ctx context.Context, key string, o *urlOptions) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if o.downloadName != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", o.downloadName))
	}

	signed, err := s.presigner.PresignGetObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = o.expiry
	})
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return signed.URL, nil
}

// HeadObject returns a file's metadata without downloading the body.
func (s *S3Storage) HeadObject(ctx context.Context, key string) (*FileInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}

	return &FileInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ACL:         s.cfg.DefaultACL,
	}, nil
}

// Copy duplicates a stored object under dstKey within the same bucket.
// CopyObject carries the source ACL over.
func (s *S3Storage) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.cfg.Bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(s.cfg.Bucket + "/" + srcKey),
	})
	if err != nil {
		return wrapS3Error(err, ErrUploadFailed)
	}
	return nil
}
