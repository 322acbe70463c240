package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/intake/pkg/cookie"
	"github.com/dmitrymomot/intake/pkg/health"
	"github.com/dmitrymomot/intake/pkg/logger"
	"github.com/dmitrymomot/intake/pkg/session"
	"github.com/dmitrymomot/intake/pkg/storage"
)

// Option wires one piece of an App during New.
type Option func(*App)

// WithMiddleware adds application-stage middleware with default priority.
// Use WithStageMiddleware to target an earlier stage.
// Within the stage, middleware runs in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		for _, m := range mw {
			a.pipeline.Use(StageApplication, m)
		}
	}
}

// WithStageMiddleware registers middleware at a specific pipeline stage.
// Entries across all stages are sorted by (stage, priority) during setup;
// within a (stage, priority) pair, registration order is preserved.
//
// Example:
//
//	intake.New(
//	    intake.WithStageMiddleware(intake.StageSecurity, middlewares.CORS(cfg)),
//	    intake.WithStageMiddleware(intake.StageLogging, middlewares.Logging(log),
//	        intake.WithEntryName("access-log"),
//	    ),
//	)
func WithStageMiddleware(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return func(a *App) {
		a.pipeline.Use(stage, mw, opts...)
	}
}

// WithEntry registers a fully specified pipeline entry.
// Zero Priority is replaced with the default (500).
func WithEntry(e Entry) Option {
	return func(a *App) {
		if e.Priority == 0 {
			e.Priority = PriorityDefault
		}
		a.pipeline.Add(e)
	}
}

// WithBefore registers middleware that runs before the built-in band of
// its stage (priority 100).
func WithBefore(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return func(a *App) {
		a.pipeline.Before(stage, mw, opts...)
	}
}

// WithAfter registers middleware that runs after the built-in band of
// its stage (priority 900).
func WithAfter(stage Stage, mw Middleware, opts ...EntryOption) Option {
	return func(a *App) {
		a.pipeline.After(stage, mw, opts...)
	}
}

// WithHandlers registers handlers; each one's Routes method is called
// during setup, after the pipeline and static mounts are in place.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles serves files from fsys under pattern, rooted at
// subDir. Directory listings 404, and responses carry an hour of cache
// plus nosniff. A bad subDir panics; that is a build mistake, not a
// runtime condition.
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
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		a.staticRoutes = append(a.staticRoutes, staticRoute{staticFileHandler(subFS), pattern})
	}
}

// staticFileHandler wraps a FileServer with the listing policy and
// headers WithStaticFiles promises.
func staticFileHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServerFS(fsys)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	})
}

// WithErrorHandler replaces the default JSON error rendering. The
// handler sees every non-nil error a route returns.
//
// Example:
//
//	intake.WithErrorHandler(func(c intake.Context, err error) error {
//	    // Log error, render custom payload, etc.
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler replaces chi's default 404 response.
//
// Example:
//
//	intake.WithNotFoundHandler(func(c intake.Context) error {
//	    return c.String(http.StatusNotFound, "Not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler replaces chi's default 405 response.
//
// Example:
//
//	intake.WithMethodNotAllowedHandler(func(c intake.Context) error {
//	    return c.String(http.StatusMethodNotAllowed, "Method not allowed")
//	})
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts the probe endpoints. Liveness answers OK as
// long as the process serves; readiness runs the registered checks and
// flips to 503 when any fails.
//
// Example:
//
//	intake.WithHealthChecks(
//	    intake.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    intake.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger builds the app logger: JSON to stdout, tagged with the
// component name, enriched by the extractors on every request-scoped
// log call.
//
// Example:
//
//	intake.New(
//	    intake.WithLogger("uploads", requestIDExtractor, userIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger hands the app an already-built slog.Logger, for
// setups WithLogger cannot express. Nil is ignored.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	intake.New(
//	    intake.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions rebuilds the cookie manager with the given profile.
// Without it cookies are plain, HttpOnly, SameSite=Lax.
//
// Example:
//
//	intake.New(
//	    intake.WithCookieOptions(
//	        intake.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        intake.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession turns on server-side sessions backed by store. Sessions
// load lazily on first touch and flush automatically before the
// response commits.
//
// Example:
//
//	store := session.NewPostgres(pool)
//	intake.New(
//	    intake.WithSession(store,
//	        intake.WithSessionCookieName("__sid"),
//	        intake.WithSessionMaxAge(86400 * 30),
//	        intake.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithStorage registers s as the default disk, serving c.Disk("") and
// every upload that does not name one.
//
// Example:
//
//	s3, err := storage.New(storage.Config{
//	    Bucket:    "my-bucket",
//	    AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//	    SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
//	intake.New(
//	    intake.WithStorage(s3),
//	)
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		if a.disks == nil {
			a.disks = storage.NewDisks()
		}
		a.disks.Register(storage.DefaultDisk, s)
	}
}

// WithDisk registers a disk under name. The first disk registered by
// any option becomes the default until WithStorage claims the slot.
//
// Example:
//
//	intake.New(
//	    intake.WithDisk("avatars", s3Avatars),
//	    intake.WithDisk("attachments", localDisk),
//	)
func WithDisk(name string, s storage.Storage) Option {
	return func(a *App) {
		if a.disks == nil {
			a.disks = storage.NewDisks()
		}
		a.disks.Register(name, s)
	}
}

// WithMaxBodySize caps how much c.Body() will buffer per request,
// 32MB unless changed. Upload limits from validation policies apply
// on top.
func WithMaxBodySize(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}
