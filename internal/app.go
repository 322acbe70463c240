package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/intake/pkg/cookie"
	"github.com/dmitrymomot/intake/pkg/health"
	"github.com/dmitrymomot/intake/pkg/logger"
	"github.com/dmitrymomot/intake/pkg/storage"
)

// Server limits are fixed, not configurable. The read and write windows
// are sized for multipart bodies and streamed downloads on slow links;
// ReadHeaderTimeout still cuts off stalled connections before a body
// ever starts, and body size is bounded separately by WithMaxBodySize.
const (
	defaultReadTimeout       = 10 * time.Minute
	defaultWriteTimeout      = 10 * time.Minute
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App ties the pieces of a service together: a chi router, the staged
// middleware pipeline, handlers, storage disks, sessions, and the probe
// endpoints. It is immutable once New returns; all wiring happens through
// options, and registering into the pipeline afterwards panics.
type App struct {
	// Routing.
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	staticRoutes            []staticRoute
	handlers                []Handler
	pipeline                *Stack

	// Request plumbing shared with every Context.
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	sessionManager *SessionManager
	disks          *storage.Disks
	maxBodyBytes   int64
}

// staticRoute pairs a file handler with the pattern it mounts under.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New builds an App from options and wires its routes. The returned App
// is ready to Run or to mount into a larger mux via Router.
//
// Example:
//
//	app := intake.New(
//	    intake.WithStageMiddleware(intake.StageLogging, middlewares.Logging(log)),
//	    intake.WithHandlers(
//	        intake.NewUploadHandler(),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
		pipeline:      NewStack(),
	}

	for _, opt := range opts {
		opt(a)
	}

	// The session manager logs through the app's logger, whichever
	// option order configured the two.
	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}

	a.setupRoutes()
	return a
}

// Router exposes the underlying chi.Router, for mounting the app into an
// existing server mux.
func (a *App) Router() chi.Router {
	return a.router
}

// Pipeline returns the middleware stack for inspection.
// The stack is frozen after New returns; registering into it panics.
func (a *App) Pipeline() *Stack {
	return a.pipeline
}

// Run starts the HTTP server on addr and blocks until shutdown.
//
// Example:
//
//	app := intake.New(
//	    intake.WithHandlers(intake.NewUploadHandler()),
//	)
//	err := app.Run(":8080", intake.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes assembles the router: fallback handlers, the composed
// pipeline, static mounts, probes, then the handlers' own routes.
func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	// The pipeline goes in as one composed unit. Sorting by
	// (stage, priority) happens here, once; the first sorted entry is
	// the outermost wrapper.
	if a.pipeline.Len() > 0 {
		a.router.Use(a.adaptMiddleware(a.pipeline.AsMiddleware()))
	} else {
		// Freeze even when empty so late registration still panics.
		a.pipeline.AsMiddleware()
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}
	a.mountProbes()

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// mountProbes registers the liveness and readiness endpoints when health
// checks were configured.
func (a *App) mountProbes() {
	if a.healthConfig == nil {
		return
	}
	a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
	a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks))
}

// wrapHandler adapts a HandlerFunc for chi, funneling its error into the
// app's error handling.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError renders err through the configured ErrorHandler, or the
// default one. A committed response wins; writing an error page over
// half-sent bytes would only corrupt the stream.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		_ = a.errorHandler(c, err)
		return
	}
	_ = defaultErrorHandler(c, err)
}

// defaultErrorHandler renders errors as JSON. Client errors keep their
// message; server errors are logged with full detail and rendered with
// a generic message so internals never leak to clients.
func defaultErrorHandler(c Context, err error) error {
	httpErr := AsHTTPError(err)
	if httpErr == nil {
		httpErr = ErrInternal("internal error", WithError(err))
	}

	msg := httpErr.Message
	if httpErr.Code >= http.StatusInternalServerError {
		c.LogError("request failed",
			slog.Int("status", httpErr.Code),
			slog.Any("error", err),
		)
		msg = http.StatusText(httpErr.Code)
	}

	return c.JSON(httpErr.Code, map[string]string{"error": msg})
}

// healthConfig carries the probe paths and the readiness checks.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Probe paths used unless overridden.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption adjusts the probe endpoints inside WithHealthChecks.
type HealthOption func(*healthConfig)

// WithLivenessPath moves the liveness endpoint off "/health/live".
// Empty paths are ignored.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath moves the readiness endpoint off "/health/ready".
// Empty paths are ignored.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named dependency check to the readiness
// probe. Checks run in parallel on every probe hit.
//
// Example:
//
//	intake.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
