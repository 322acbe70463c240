package intake

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/pkg/cache"
	"github.com/dmitrymomot/intake/pkg/cookie"
	"github.com/dmitrymomot/intake/pkg/health"
	"github.com/dmitrymomot/intake/pkg/logger"
	"github.com/dmitrymomot/intake/pkg/session"
	"github.com/dmitrymomot/intake/pkg/storage"
	"github.com/dmitrymomot/intake/pkg/upload"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, the middleware pipeline, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with status capture and
	// before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// Stage identifies a slot in the middleware pipeline.
	Stage = internal.Stage

	// Entry is one middleware registration in the pipeline.
	Entry = internal.Entry

	// EntryOption configures a pipeline entry.
	EntryOption = internal.EntryOption

	// Stack is an ordered collection of pipeline entries.
	Stack = internal.Stack

	// HTTPError is an error with an associated HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// UploadHandler accepts multipart file uploads and stores them on a disk.
	UploadHandler = internal.UploadHandler

	// UploadOption configures the upload handler.
	UploadOption = internal.UploadOption

	// UploadResult is the JSON payload returned after a stored upload.
	UploadResult = internal.UploadResult

	// Extractor pulls a string value from a request context using an
	// ordered list of sources.
	Extractor = internal.Extractor

	// ExtractorSource is a single value source for an Extractor.
	ExtractorSource = internal.ExtractorSource
)

// Pipeline stages, in execution order.
const (
	StageErrors      = internal.StageErrors
	StageSecurity    = internal.StageSecurity
	StageLogging     = internal.StageLogging
	StageAssets      = internal.StageAssets
	StagePrivileged  = internal.StagePrivileged
	StageAuth        = internal.StageAuth
	StageApplication = internal.StageApplication
)

// Priorities order entries within a stage. Lower runs first (outermost).
const (
	PriorityBefore  = internal.PriorityBefore
	PriorityEarly   = internal.PriorityEarly
	PriorityDefault = internal.PriorityDefault
	PriorityLate    = internal.PriorityLate
	PriorityAfter   = internal.PriorityAfter
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation: the middleware pipeline is sorted
// and composed during setup, and registering into it afterwards panics.
//
// Example:
//
//	app := intake.New(
//	    intake.WithEntry(middlewares.RecoverEntry()),
//	    intake.WithEntry(middlewares.LoggingEntry()),
//	    intake.WithHandlers(
//	        intake.NewUploadHandler(intake.WithUploadPolicy(upload.ImagePolicy())),
//	    ),
//	)
//
//	err := app.Run(":8080", intake.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Run starts an HTTP server for the given app and blocks until shutdown.
// Additional apps can be mounted per host with Domain; the given app then
// acts as the fallback.
//
// Example:
//
//	err := intake.Run(app,
//	    intake.Address(":8080"),
//	    intake.Logger(slog),
//	    intake.ShutdownHook(db.Shutdown(pool)),
//	)
func Run(app *App, opts ...RunOption) error {
	return internal.Run(app, opts...)
}

// NewUploadHandler creates the multipart upload handler.
// Mount it through WithHandlers; it registers POST on its upload path
// (/uploads unless changed with WithUploadPath).
func NewUploadHandler(opts ...UploadOption) *UploadHandler {
	return internal.NewUploadHandler(opts...)
}

// NewEntry builds a pipeline entry for the given stage and middleware.
func NewEntry(stage Stage, mw Middleware, opts ...EntryOption) Entry {
	return internal.NewEntry(stage, mw, opts...)
}

// NewStack creates an empty middleware pipeline.
func NewStack() *Stack {
	return internal.NewStack()
}

// Compose folds sorted entries around a terminal handler.
// Most callers use App's pipeline instead; Compose is exposed for
// embedding the stage model outside an App.
func Compose(entries []Entry, terminal HandlerFunc) HandlerFunc {
	return internal.Compose(entries, terminal)
}

// NewResponseWriter wraps w with status and size capture.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return internal.NewResponseWriter(w)
}

// Stages returns all pipeline stages in execution order.
func Stages() []Stage {
	return internal.Stages()
}

// App options

// WithMiddleware registers middleware in the application stage.
// Use WithEntry or WithStageMiddleware to target an earlier stage.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithStageMiddleware registers middleware in a specific pipeline stage.
//
// Example:
//
//	intake.WithStageMiddleware(intake.StageSecurity, myCORS)
func WithStageMiddleware(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return internal.WithStageMiddleware(stage, mw, opts...)
}

// WithEntry registers a prebuilt pipeline entry.
// The middlewares package provides Entry constructors for its built-ins.
//
// Example:
//
//	intake.WithEntry(middlewares.CSRFEntry())
func WithEntry(e Entry) Option {
	return internal.WithEntry(e)
}

// WithBefore registers middleware that runs before every entry of a stage.
func WithBefore(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return internal.WithBefore(stage, mw, opts...)
}

// WithAfter registers middleware that runs after every entry of a stage.
func WithAfter(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return internal.WithAfter(stage, mw, opts...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	intake.New(
//	    intake.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	intake.WithHealthChecks(
//	    intake.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	intake.New(
//	    intake.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	intake.New(
//	    intake.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	intake.New(
//	    intake.WithCookieOptions(
//	        intake.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        intake.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithStorage sets the default disk for c.Disk("") and the upload handler.
//
// Example:
//
//	local, _ := storage.NewLocal("./data/files", "/files")
//	intake.New(
//	    intake.WithStorage(local),
//	)
func WithStorage(s storage.Storage) Option {
	return internal.WithStorage(s)
}

// WithDisk registers a named disk. Handlers select it with c.Disk(name),
// upload requests with the disk form field.
//
// Example:
//
//	intake.New(
//	    intake.WithStorage(local),
//	    intake.WithDisk("s3", s3Disk),
//	)
func WithDisk(name string, s storage.Storage) Option {
	return internal.WithDisk(name, s)
}

// WithMaxBodySize caps buffered request bodies in bytes.
// Requests exceeding the cap are rejected with 413.
// Defaults to 32MB.
func WithMaxBodySize(n int64) Option {
	return internal.WithMaxBodySize(n)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the application logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run during server startup.
// Hooks are called in the order they were registered, after the port is bound
// but before serving requests. If any hook fails, the server stops and
// returns the error.
//
// Example:
//
//	intake.StartupHook(jan.Start)
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	intake.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// Domain maps a host pattern to an additional app.
// Patterns: "api.example.com" (exact) or "*.example.com" (wildcard).
//
// Example:
//
//	intake.Run(webApp,
//	    intake.Domain("uploads.acme.com", uploadApp),
//	)
func Domain(pattern string, app *App) RunOption {
	return internal.Domain(pattern, app)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := intake.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Request value extractors

// NewExtractor builds an extractor that tries each source in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a value from a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a value from the URL query string.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a value from a plain cookie.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromCookieSigned reads a value from a signed cookie.
func FromCookieSigned(name string) ExtractorSource { return internal.FromCookieSigned(name) }

// FromParam reads a value from a route parameter.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromForm reads a value from a form field.
func FromForm(name string) ExtractorSource { return internal.FromForm(name) }

// FromSession reads a string value from the session.
func FromSession(key string) ExtractorSource { return internal.FromSession(key) }

// FromBearerToken reads the token from an Authorization: Bearer header.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// Entry options

// WithEntryName names a pipeline entry for logs and inspection.
func WithEntryName(name string) EntryOption {
	return internal.WithEntryName(name)
}

// WithEntryOwner records which component registered the entry.
func WithEntryOwner(owner string) EntryOption {
	return internal.WithEntryOwner(owner)
}

// WithEntryPriority orders an entry within its stage.
func WithEntryPriority(priority int) EntryOption {
	return internal.WithEntryPriority(priority)
}

// Upload handler options

// WithUploadPath overrides the upload route. Defaults to "/uploads".
func WithUploadPath(p string) UploadOption {
	return internal.WithUploadPath(p)
}

// WithUploadPolicy sets the single policy applied to every upload.
func WithUploadPolicy(p upload.Policy) UploadOption {
	return internal.WithUploadPolicy(p)
}

// WithUploadPolicies sets a named policy set selected per request via the
// uploadType form field.
func WithUploadPolicies(set upload.PolicySet) UploadOption {
	return internal.WithUploadPolicies(set)
}

// WithUploadCSRF requires a valid CSRF token on every upload request.
func WithUploadCSRF() UploadOption {
	return internal.WithUploadCSRF()
}

// WithUploadURLCache caches resolved file URLs, deduplicating concurrent
// lookups for the same key.
//
// Example:
//
//	urls := cache.NewMemory[string]()
//	intake.NewUploadHandler(
//	    intake.WithUploadURLCache(urls, 10*time.Minute),
//	)
func WithUploadURLCache(c cache.Cache[string], ttl time.Duration) UploadOption {
	return internal.WithUploadURLCache(c, ttl)
}

// Cookie options

// WithCookieSecret sets the secret for signing and encryption.
// Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound  = cookie.ErrNotFound
	ErrCookieNoSecret  = cookie.ErrNoSecret
	ErrCookieBadSecret = cookie.ErrBadSecret
	ErrCookieBadSig    = cookie.ErrBadSig
)

// Session options

// WithSession enables server-side session management.
// A SessionStore implementation must be provided (memory, Postgres, Redis).
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	store := session.NewPostgres(pool)
//	intake.New(
//	    intake.WithSession(store,
//	        intake.WithSessionCookieName("__sid"),
//	        intake.WithSessionMaxAge(86400 * 30),
//	    ),
//	)
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name.
// Defaults to "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session max age in seconds.
// Defaults to 30 days.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionPath sets the session cookie path.
// Defaults to "/".
func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

// WithSessionSecure sets the session cookie Secure flag.
// Defaults to false (should be true in production with HTTPS).
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
// Defaults to true (recommended for security).
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return internal.WithSessionHTTPOnly(httpOnly)
}

// WithSessionSameSite sets the session cookie SameSite attribute.
// Defaults to SameSiteLaxMode.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// WithSessionCSRFSecret sets the key for deriving per-session CSRF tokens.
// Without it, tokens are derived from the session token alone.
func WithSessionCSRFSecret(secret string) SessionOption {
	return internal.WithSessionCSRFSecret(secret)
}

// Session errors for checking return values.
var (
	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
	ErrSessionInvalidToken  = session.ErrInvalidToken
)

// SessionValue is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
//
// Example:
//
//	theme, err := intake.SessionValue[string](sess, "theme")
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
//
// Example:
//
//	theme := intake.SessionValueOr(sess, "theme", "light")
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}

// HTTP errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// WithErrorCode attaches a machine-readable error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithRequestID attaches the request ID to the error.
func WithRequestID(id string) HTTPErrorOption {
	return internal.WithRequestID(id)
}

// WithError wraps an underlying error.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrUnauthorized returns a 401 error.
func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

// ErrForbidden returns a 403 error.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

// ErrNotFound returns a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrConflict returns a 409 error.
func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

// ErrUnprocessable returns a 422 error.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

// ErrRequestTooLarge returns a 413 error.
func ErrRequestTooLarge(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrRequestTooLarge(message, opts...)
}

// ErrInternal returns a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// ErrServiceUnavailable returns a 503 error.
func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(message, opts...)
}

// IsHTTPError reports whether err is or wraps an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError extracts an *HTTPError from err, or returns nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// ErrBodyTooLarge is returned by Context.Body when the request body
// exceeds the configured limit.
var ErrBodyTooLarge = internal.ErrBodyTooLarge
