package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinels callers match with errors.Is. Backend failures are wrapped in
// one of these so handler code never branches on SDK types.
var (
	// Setup and disk routing.
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrNotConfigured = errors.New("storage: not configured")
	ErrUnknownDisk   = errors.New("storage: unknown disk")

	// Uploads.
	ErrInvalidKey   = errors.New("storage: invalid key")
	ErrEmptyFile    = errors.New("storage: file is empty")
	ErrUploadFailed = errors.New("storage: upload failed")

	// Reads and lifecycle.
	ErrNotFound      = errors.New("storage: file not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrDeleteFailed  = errors.New("storage: delete failed")
	ErrPresignFailed = errors.New("storage: presign failed")

	// Sideloading from remote URLs.
	ErrInvalidURL       = errors.New("storage: invalid URL")
	ErrDownloadFailed   = errors.New("storage: failed to download from URL")
	ErrDownloadTooLarge = errors.New("storage: download exceeds size limit")
)

// wrapS3Error translates an SDK error into a sentinel. Missing keys and
// denied access get their own sentinels, anything else collapses into
// fallback. The SDK error is flattened with %v rather than wrapped, which
// keeps AWS types out of the error chain callers inspect.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	// HeadObject failures surface as typed errors, not API codes.
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
