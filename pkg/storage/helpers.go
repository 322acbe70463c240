package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// downloadClient fetches remote files for PutFromURL. The timeout covers
// the whole transfer, not just the dial.
var downloadClient = &http.Client{Timeout: 30 * time.Second}

// PutBytes stores an in-memory payload. Empty payloads are rejected with
// ErrEmptyFile before touching the backend.
func PutBytes(ctx context.Context, s Storage, data []byte, opts ...Option) (*FileInfo, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return s.Put(ctx, bytes.NewReader(data), int64(len(data)), opts...)
}

// PutFromURL fetches a remote file over http(s) and stores it. maxSize
// caps the transfer, zero meaning DefaultMaxDownloadSize; oversized
// bodies fail with ErrDownloadTooLarge whether announced by
// Content-Length or discovered while reading. Network and HTTP failures
// come back as ErrDownloadFailed, malformed or non-http URLs as
// ErrInvalidURL.
func PutFromURL(ctx context.Context, s Storage, sourceURL string, maxSize int64, opts ...Option) (*FileInfo, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxDownloadSize
	}

	data, err := download(ctx, sourceURL, maxSize)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	return s.Put(ctx, bytes.NewReader(data), int64(len(data)), opts...)
}

func download(ctx context.Context, sourceURL string, maxSize int64) ([]byte, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}
	if resp.ContentLength > maxSize {
		return nil, ErrDownloadTooLarge
	}

	// One spare byte exposes bodies that run past the cap without an
	// announced length.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrDownloadTooLarge
	}

	return data, nil
}
