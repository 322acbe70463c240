package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	localDirPerm  = 0o755
	localFilePerm = 0o644
	metaSuffix    = ".meta"
)

// localMeta is the JSON sidecar written next to each stored file.
type localMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocalStorage implements Storage on the local filesystem. Files are
// stored under a root directory and addressed by slash-separated keys.
// URLs are built by joining a base URL with the key, so the root should
// be exposed through a static file route.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocal creates a LocalStorage rooted at dir. URLs are formed as
// baseURL + "/" + key; baseURL defaults to "/files" when empty.
func NewLocal(dir, baseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("root directory is required"))
	}
	if err := os.MkdirAll(dir, localDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if baseURL == "" {
		baseURL = "/files"
	}
	return &LocalStorage{
		root:    dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Put writes data from a reader to the local filesystem.
func (l *LocalStorage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var contentType string
	var body io.Reader
	if o.contentType != "" {
		contentType = o.contentType
		body = r
	} else {
		ct, rs := detectMIMESeekable(r)
		contentType = ct
		body = rs
	}

	key := o.key
	if key == "" {
		key = objectKey(o.tenant, o.prefix, contentType)
	}

	target, err := l.keyPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), localDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temp file in the same directory, then rename, so a
	// partially written file is never visible under its final key.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	written, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if err := os.Chmod(target, localFilePerm); err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}

	meta := localMeta{
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if err := os.WriteFile(target+metaSuffix, data, localFilePerm); err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}

	return &FileInfo{
		Key:         key,
		Size:        written,
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// Get opens a stored file for reading.
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := l.keyPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Exists reports whether a file is present under the root.
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	target, err := l.keyPath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// MimeType returns the content type recorded for a file. It reads the
// metadata sidecar first and falls back to sniffing the file contents
// when the sidecar is missing.
func (l *LocalStorage) MimeType(ctx context.Context, key string) (string, error) {
	target, err := l.keyPath(key)
	if err != nil {
		return "", err
	}

	if data, err := os.ReadFile(target + metaSuffix); err == nil {
		var meta localMeta
		if err := json.Unmarshal(data, &meta); err == nil && meta.ContentType != "" {
			return meta.ContentType, nil
		}
	}

	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return detectMIME(f), nil
}

// Delete removes a file and its metadata sidecar.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := l.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errors.Join(ErrDeleteFailed, err)
	}
	if err := os.Remove(target + metaSuffix); err != nil && !os.IsNotExist(err) {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

// URL returns the public URL for a file. Local storage has no signing,
// so URL options are accepted but ignored.
func (l *LocalStorage) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	if _, err := l.keyPath(key); err != nil {
		return "", err
	}
	return l.baseURL + "/" + key, nil
}

// Cleanup removes files older than maxAge along with their sidecars and
// returns the number of files removed. Intended to be driven by a
// scheduled janitor for temp-upload directories.
func (l *LocalStorage) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
		if err := os.Remove(p + metaSuffix); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup failed: %w", err)
	}
	return removed, nil
}

// keyPath validates a key and resolves it to a filesystem path. Keys
// must be clean slash-separated relative paths; anything that would
// escape the root is rejected.
func (l *LocalStorage) keyPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned != key || path.IsAbs(cleaned) || cleaned == "." ||
		cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

// Ensure LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)
