package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/intake/pkg/cookie"
	"github.com/dmitrymomot/intake/pkg/session"
	"github.com/dmitrymomot/intake/pkg/storage"
)

// Default cap on buffered request bodies. Upload endpoints usually lower
// this via their own policy limits; the cap exists so no handler can be
// made to buffer an unbounded body.
const defaultMaxBodyBytes = 32 << 20 // 32MB

// ErrBodyTooLarge is returned by Context.Body when the request body
// exceeds the configured limit.
var ErrBodyTooLarge = errors.New("request body too large")

// Context is the per-request value handlers receive. It bundles request
// access, response writing, logging, cookies, sessions, and storage disks,
// and doubles as a context.Context by delegating to the request's context.
type Context interface {
	context.Context

	// Request returns the incoming *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the named route parameter, or "" when absent.
	Param(name string) string

	// Query returns the named query parameter, or "" when absent.
	Query(name string) string

	// QueryDefault returns the named query parameter, or defaultValue
	// when the parameter is absent or blank.
	QueryDefault(name, defaultValue string) string

	// Form returns the named field of a URL-encoded body, or "" when absent.
	Form(name string) string

	// Body buffers and returns the full raw request body. The read
	// happens once; repeat calls return the same bytes. The body is
	// capped at the app's body limit: an oversized body returns
	// ErrBodyTooLarge, and a read that fails mid-stream (client gone,
	// connection dropped) returns the read error. Callers must never
	// treat a partial buffer as a complete body.
	Body() ([]byte, error)

	// Header returns a request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes v as a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a bodiless response.
	NoContent(code int) error

	// Redirect sends the client to url with the given 3xx code.
	Redirect(code int, url string) error

	// Error builds an HTTPError without writing anything. Handlers return
	// it so the app's error handler renders the response.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether a response has already been written.
	Written() bool

	// Logger exposes the request logger for advanced usage; the LogXxx
	// methods cover the common case and carry the request context.
	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context, readable through Get or
	// c.Context().Value(key). Get returns nil for unknown keys.
	Set(key any, value any)
	Get(key any) any

	// Cookie, SetCookie, and DeleteCookie work with plain cookies. The
	// Signed variants authenticate values with the app's cookie secret
	// and return cookie.ErrNoSecret when none is configured.
	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error

	// Session returns the current session, loading it on first use.
	// Yields nil, nil when the client sent no session cookie, and
	// session.ErrNotConfigured when the app was built without WithSession;
	// the same sentinel applies to every session method below.
	Session() (*session.Session, error)

	// InitSession mints a fresh session and sets its cookie.
	InitSession() error

	// UserID returns the session's user ID. Empty means no session, no
	// session manager, or an anonymous session; IsAuthenticated is the
	// boolean shorthand.
	UserID() string
	IsAuthenticated() bool

	// SessionValue, SetSessionValue, and DeleteSessionValue operate on the
	// session's value bag. Each returns session.ErrNotFound when the
	// request carries no session.
	SessionValue(key string) (any, error)
	SetSessionValue(key string, val any) error
	DeleteSessionValue(key string) error

	// CSRFToken returns the token bound to the current session, creating
	// a session first when none exists.
	CSRFToken() (string, error)

	// VerifyCSRF reports whether token is valid for the current session.
	// False when sessions are off, no session exists, or the token fails.
	VerifyCSRF(token string) bool

	// Disk returns the named storage disk; "" means the default disk.
	// Returns storage.ErrNotConfigured when no disks were registered and
	// storage.ErrUnknownDisk for an unrecognized name.
	Disk(name string) (storage.Storage, error)

	// ResponseWriter returns the wrapped response writer, or nil when the
	// response is not wrapped.
	ResponseWriter() *ResponseWriter
}

type requestContext struct {
	request        *http.Request
	response       http.ResponseWriter
	responseWriter *ResponseWriter

	logger        *slog.Logger
	cookieManager *cookie.Manager
	disks         *storage.Disks

	sessionManager *SessionManager
	session        *session.Session
	sessionLoaded  bool
	flushArmed     bool

	// Body() result, cached after the single read.
	body         []byte
	bodyErr      error
	bodyRead     bool
	maxBodyBytes int64
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)

	return &requestContext{
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		cookieManager:  app.cookieManager,
		sessionManager: app.sessionManager,
		disks:          app.disks,
		maxBodyBytes:   app.maxBodyBytes,
	}
}

// context.Context is satisfied by delegating to the request's context, so
// a Context can be passed straight into store and storage calls.

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Body() ([]byte, error) {
	if c.bodyRead {
		return c.body, c.bodyErr
	}
	c.bodyRead = true

	if c.request.Body == nil {
		return nil, nil
	}

	limit := c.maxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.response, c.request.Body, limit))
	if err != nil {
		c.bodyErr = err
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.bodyErr = ErrBodyTooLarge
		}
		return nil, c.bodyErr
	}

	c.body = body
	return c.body, nil
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	err := NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookieManager.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookieManager.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookieManager.Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookieManager.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookieManager.SetSigned(c.response, name, value, maxAge)
}

// armSessionFlush registers the pre-write hook that persists a dirty
// session before the first response byte leaves. Runs at most once per
// request; Set-Cookie wouldn't reach the client after headers are sent.
func (c *requestContext) armSessionFlush() {
	if c.flushArmed || c.sessionManager == nil || c.responseWriter == nil {
		return
	}
	c.flushArmed = true
	c.responseWriter.OnBeforeWrite(func() {
		if c.session == nil || !c.session.IsDirty() {
			return
		}
		// Save failures must not derail rendering; log and move on.
		if err := c.sessionManager.Store().Update(c.Context(), c.session); err != nil {
			c.logger.ErrorContext(c.Context(), "failed to save session", "error", err)
			return
		}
		c.session.ClearDirty()
	})
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}

	c.armSessionFlush()

	if c.sessionLoaded {
		return c.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}

	c.session = sess
	c.sessionLoaded = true
	return c.session, nil
}

func (c *requestContext) InitSession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	c.armSessionFlush()

	sess, err := c.sessionManager.CreateSession(c.Context(), c.request)
	if err != nil {
		return err
	}

	c.session = sess
	c.sessionLoaded = true
	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

// liveSession loads the session and insists the request carries one.
func (c *requestContext) liveSession() (*session.Session, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (c *requestContext) UserID() string {
	sess, err := c.Session()
	if err != nil || sess == nil || sess.UserID == nil {
		return ""
	}
	return *sess.UserID
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != ""
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.liveSession()
	if err != nil {
		return nil, err
	}
	val, ok := sess.GetValue(key)
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.liveSession()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.liveSession()
	if err != nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) CSRFToken() (string, error) {
	if c.sessionManager == nil {
		return "", session.ErrNotConfigured
	}

	sess, err := c.Session()
	if err != nil {
		return "", err
	}
	if sess == nil {
		if err := c.InitSession(); err != nil {
			return "", err
		}
		sess = c.session
	}

	return c.sessionManager.CSRFToken(sess.ID), nil
}

func (c *requestContext) VerifyCSRF(token string) bool {
	if c.sessionManager == nil {
		return false
	}

	sess, err := c.Session()
	if err != nil || sess == nil {
		return false
	}

	return c.sessionManager.ValidateToken(token, sess.ID)
}

func (c *requestContext) Disk(name string) (storage.Storage, error) {
	if c.disks == nil {
		return nil, storage.ErrNotConfigured
	}
	return c.disks.Get(name)
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
