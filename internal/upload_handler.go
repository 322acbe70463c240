package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intake/pkg/cache"
	"github.com/dmitrymomot/intake/pkg/formdata"
	"github.com/dmitrymomot/intake/pkg/sanitizer"
	"github.com/dmitrymomot/intake/pkg/storage"
	"github.com/dmitrymomot/intake/pkg/upload"
)

// defaultUploadPath is where the upload endpoint mounts unless
// WithUploadPath overrides it.
const defaultUploadPath = "/uploads"

// defaultURLCacheTTL keeps cached links comfortably inside the storage
// layer's 15 minute presign window.
const defaultURLCacheTTL = 10 * time.Minute

// UploadResult is the success payload of the upload endpoint.
type UploadResult struct {
	// ID is a fresh identifier for the upload record, unrelated to the
	// storage key.
	ID string `json:"id"`

	// Name is the sanitized display name.
	Name string `json:"name"`

	// OriginalName is the client-supplied filename, verbatim.
	OriginalName string `json:"originalName"`

	// Path is the disk-relative key the file was stored under.
	Path string `json:"path"`

	// URL resolves the stored file.
	URL string `json:"url"`

	// Size is the payload size in bytes.
	Size int64 `json:"size"`

	// Type is the stored content type.
	Type string `json:"type"`
}

// UploadHandler accepts multipart file uploads, validates them against
// an acceptance policy, and persists them through the app's storage
// disks. Register it via WithHandlers.
//
// The request flow: the full body is buffered, the multipart boundary
// extracted, the optional CSRF re-check performed, and only then is the
// body decoded. The first file part is the upload; the form fields
// disk, directory, uploadType, maxSize, and acceptedTypes configure
// where it goes and what is accepted. Every failure terminates with an
// error response before the storage write.
type UploadHandler struct {
	path        string
	policy      upload.Policy
	policies    upload.PolicySet
	urlCache    cache.Cache[string]
	urlCacheTTL time.Duration
	requireCSRF bool
}

// UploadOption configures the UploadHandler.
type UploadOption func(*UploadHandler)

// NewUploadHandler creates an upload handler. Without options it
// mounts at /uploads and accepts any file the app's body limit
// admits; set a policy to narrow that.
func NewUploadHandler(opts ...UploadOption) *UploadHandler {
	h := &UploadHandler{
		path:        defaultUploadPath,
		urlCacheTTL: defaultURLCacheTTL,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// WithUploadPath changes the endpoint path.
func WithUploadPath(p string) UploadOption {
	return func(h *UploadHandler) {
		if p != "" {
			h.path = p
		}
	}
}

// WithUploadPolicy sets the base acceptance policy, used when no named
// policy matches the request's uploadType field.
func WithUploadPolicy(p upload.Policy) UploadOption {
	return func(h *UploadHandler) {
		h.policy = p
	}
}

// WithUploadPolicies sets the named policy set resolved by the
// uploadType form field.
func WithUploadPolicies(set upload.PolicySet) UploadOption {
	return func(h *UploadHandler) {
		h.policies = set
	}
}

// WithUploadCSRF makes the handler verify the X-CSRF-Token header
// against the current session before decoding the body. Requires
// sessions to be configured on the app.
func WithUploadCSRF() UploadOption {
	return func(h *UploadHandler) {
		h.requireCSRF = true
	}
}

// WithUploadURLCache caches resolved file URLs. A ttl of zero keeps
// the default, which stays below the signed-URL expiry.
func WithUploadURLCache(c cache.Cache[string], ttl time.Duration) UploadOption {
	return func(h *UploadHandler) {
		h.urlCache = c
		if ttl > 0 {
			h.urlCacheTTL = ttl
		}
	}
}

// Routes registers the upload endpoint.
func (h *UploadHandler) Routes(r Router) {
	r.POST(h.path, h.handleUpload)
}

func (h *UploadHandler) handleUpload(c Context) error {
	body, err := c.Body()
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			return ErrRequestTooLarge("request body exceeds the upload limit")
		}
		// Partial buffers are never decoded; a failed read ends here.
		return ErrBadRequest("failed to read request body", WithError(err))
	}

	boundary, err := formdata.Boundary(c.Header("Content-Type"))
	if err != nil {
		if errors.Is(err, formdata.ErrNoBoundary) {
			return ErrBadRequest("multipart boundary missing")
		}
		return ErrBadRequest("content type must be multipart/form-data")
	}

	if h.requireCSRF && !c.VerifyCSRF(c.Header("X-CSRF-Token")) {
		return ErrForbidden("invalid csrf token")
	}

	file, fields := splitParts(formdata.Decode(body, boundary))
	if file == nil {
		return ErrBadRequest("no file in request")
	}

	disk, err := c.Disk(fields["disk"])
	if err != nil {
		if errors.Is(err, storage.ErrUnknownDisk) {
			return ErrBadRequest(fmt.Sprintf("unknown disk %q", fields["disk"]))
		}
		return ErrInternal("storage not available", WithError(err))
	}

	policy, err := h.resolvePolicy(fields)
	if err != nil {
		return err
	}

	if verr := policy.Validate(file.Data, file.Filename, file.ContentType); verr != nil {
		return ErrBadRequest(verr.Error())
	}

	key := upload.StorageName(file.Filename)
	if dir := cleanDirectory(fields["directory"]); dir != "" {
		key = path.Join(dir, key)
	}

	putOpts := []storage.Option{storage.WithKey(key)}
	if file.ContentType != "" {
		putOpts = append(putOpts, storage.WithContentType(file.ContentType))
	}

	info, err := storage.PutBytes(c.Context(), disk, file.Data, putOpts...)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return ErrBadRequest("file is empty")
		}
		return ErrInternal("failed to store file", WithError(err))
	}

	url, err := h.fileURL(c, fields["disk"], disk, info.Key)
	if err != nil {
		return ErrInternal("failed to resolve file url", WithError(err))
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = file.ContentType
	}

	return c.JSON(http.StatusOK, UploadResult{
		ID:           uuid.NewString(),
		Name:         sanitizer.Filename(file.Filename),
		OriginalName: file.Filename,
		Path:         info.Key,
		URL:          url,
		Size:         int64(len(file.Data)),
		Type:         contentType,
	})
}

// splitParts separates the decoded form into the file payload and the
// named text fields. The first part carrying a filename is the file;
// later file parts are ignored.
func splitParts(parts []formdata.Part) (*formdata.Part, map[string]string) {
	var file *formdata.Part
	fields := make(map[string]string)

	for i := range parts {
		p := &parts[i]
		if p.IsFile() {
			if file == nil {
				file = p
			}
			continue
		}
		if p.Name != "" {
			fields[p.Name] = p.Value()
		}
	}

	return file, fields
}

// resolvePolicy builds the effective policy for one request: the named
// policy selected by uploadType (falling back to the base policy), then
// narrowed by the maxSize and acceptedTypes fields.
func (h *UploadHandler) resolvePolicy(fields map[string]string) (upload.Policy, error) {
	policy := h.policy
	if typ := fields["uploadType"]; typ != "" && h.policies != nil {
		if p, ok := h.policies.Get(typ); ok {
			policy = p
		}
	}

	if raw := fields["maxSize"]; raw != "" {
		maxSize, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxSize < 0 {
			return upload.Policy{}, ErrBadRequest(fmt.Sprintf("invalid maxSize %q", raw))
		}
		policy = policy.WithMaxSize(maxSize)
	}

	if raw := fields["acceptedTypes"]; raw != "" {
		policy = policy.WithMIMETypes(strings.Split(raw, ",")...)
	}

	return policy, nil
}

// cleanDirectory normalizes the client-supplied directory field into a
// relative prefix with traversal neutralized. Cleaning against an
// absolute base resolves any ".." before the leading slash is removed.
func cleanDirectory(dir string) string {
	if dir == "" {
		return ""
	}
	dir = strings.ReplaceAll(dir, `\`, "/")
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "." {
		return ""
	}
	return dir
}

// fileURL resolves the stored file's URL, through the configured cache
// when one is present so repeated lookups reuse one signed URL.
func (h *UploadHandler) fileURL(c Context, diskName string, disk storage.Storage, key string) (string, error) {
	if h.urlCache == nil {
		return disk.URL(c.Context(), key)
	}

	cacheKey := diskName + ":" + key
	return cache.GetOrSet(c.Context(), h.urlCache, cacheKey, func(ctx context.Context) (string, time.Duration, error) {
		u, err := disk.URL(ctx, key)
		return u, h.urlCacheTTL, err
	})
}
