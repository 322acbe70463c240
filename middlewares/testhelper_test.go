package middlewares_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/pkg/logger"
	"github.com/dmitrymomot/intake/pkg/session"
	"github.com/dmitrymomot/intake/pkg/storage"
)

// testContext is a minimal Context implementation for exercising
// middleware in isolation, without building a full App. Behavior that a
// middleware under test depends on (sessions, CSRF verification) is
// injectable through fields.
type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	values   map[any]any
	logger   *slog.Logger

	rw *internal.ResponseWriter

	session    *session.Session
	sessionErr error
	csrfToken  string
	verifyFn   func(token string) bool

	initSessionCalls int
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: w,
		request:  r,
		values:   make(map[any]any),
		logger:   logger.NewNope(),
	}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(name string) string      { return "" }

func (c *testContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *testContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *testContext) Form(name string) string { return c.request.FormValue(name) }

func (c *testContext) Body() ([]byte, error) {
	if c.request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.request.Body)
}

func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }

func (c *testContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	err := internal.NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func (c *testContext) Written() bool {
	if c.rw != nil {
		return c.rw.Written()
	}
	return false
}

func (c *testContext) Logger() *slog.Logger              { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.logger.Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.logger.Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.logger.Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.logger.Error(msg, attrs...) }

func (c *testContext) Set(key, value any) {
	c.values[key] = value
	// Mirror into the request context so ContextExtractors see it too.
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *testContext) Get(key any) any {
	return c.values[key]
}

func (c *testContext) Cookie(name string) (string, error) {
	cookie, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *testContext) SetCookie(name, value string, maxAge int) {
	http.SetCookie(c.response, &http.Cookie{Name: name, Value: value, MaxAge: maxAge})
}

func (c *testContext) DeleteCookie(name string) {
	http.SetCookie(c.response, &http.Cookie{Name: name, MaxAge: -1})
}

func (c *testContext) CookieSigned(name string) (string, error)             { return "", nil }
func (c *testContext) SetCookieSigned(name, value string, maxAge int) error { return nil }

func (c *testContext) Session() (*session.Session, error) { return c.session, c.sessionErr }

func (c *testContext) InitSession() error {
	c.initSessionCalls++
	if c.session == nil {
		c.session = session.New("test-session", "test-token", time.Now().Add(time.Hour))
	}
	return nil
}

func (c *testContext) UserID() string {
	if c.session == nil || c.session.UserID == nil {
		return ""
	}
	return *c.session.UserID
}

func (c *testContext) IsAuthenticated() bool { return c.UserID() != "" }

func (c *testContext) SessionValue(key string) (any, error)      { return nil, nil }
func (c *testContext) SetSessionValue(key string, val any) error { return nil }
func (c *testContext) DeleteSessionValue(key string) error       { return nil }

func (c *testContext) CSRFToken() (string, error) { return c.csrfToken, nil }

func (c *testContext) VerifyCSRF(token string) bool {
	if c.verifyFn != nil {
		return c.verifyFn(token)
	}
	return false
}

func (c *testContext) Disk(name string) (storage.Storage, error) {
	return nil, storage.ErrNotConfigured
}

func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.rw }

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }
