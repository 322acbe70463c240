// Package internal implements the intake framework. Import
// "github.com/dmitrymomot/intake" instead; it re-exports everything
// meant for use.
//
// An App is built once from options and then serves requests. Handlers
// declare routes against the Router interface and receive a Context per
// request; middleware forms a staged pipeline around them. The types to
// know:
//
//   - App: the assembled service, from New to Run
//   - Context: per-request access to the request, response, session,
//     cookies, disks, and logging
//   - Handler: a type that declares its routes on a Router
//   - HandlerFunc: one route, returning an error instead of writing
//     error responses by hand
//   - Middleware: a HandlerFunc wrapper
//   - Stack, Entry, Stage: the staged pipeline and its registrations
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects a standard library context. The Deadline, Done,
// Err, and Value methods delegate to the underlying request context:
//
//	func (h *Handler) getUpload(c intake.Context) error {
//	    info, err := h.disk.Get(c, fileID)
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(200, info)
//	}
//
// # Building an app
//
//	app := internal.New(
//	    internal.WithHandlers(uploadHandler, apiHandler),
//	    internal.WithStageMiddleware(internal.StageLogging, loggingMiddleware),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("db", dbCheck)),
//	)
//
// Handlers implement the Handler interface and declare routes:
//
//	type MediaHandler struct {
//	    disks *storage.Disks
//	}
//
//	func (h *MediaHandler) Routes(r internal.Router) {
//	    r.GET("/files/{id}", h.serveFile)
//	    r.POST("/upload", h.handleUpload)
//	}
//
// Handlers receive dependencies via constructor injection, not context
// helpers. This keeps handler logic explicit and testable.
//
// # Middleware Pipeline
//
// Middleware is organized into a staged pipeline. Each registration carries a
// Stage and a Priority; the composed chain orders entries by stage first and
// priority second, with registration order breaking ties. Stages run in a
// fixed sequence:
//
//	error-handling -> security -> logging -> asset-serving ->
//	privileged-api -> auth -> application
//
// The first entry in that order becomes the outermost wrapper: it observes
// the request first and the response last. Error handling therefore catches
// panics and errors from every later stage, and asset serving short-circuits
// before any session work happens.
//
// Register entries on a Stack during boot:
//
//	stack := internal.NewStack()
//	stack.Use(internal.StageSecurity, corsMiddleware)
//	stack.Before(internal.StageAuth, rateLimit)      // ahead of the built-ins
//	stack.After(internal.StageLogging, auditTrail)   // behind the built-ins
//	handler := stack.Build(terminal)
//
// Within a stage, built-ins occupy the priority band PriorityEarly..PriorityLate,
// so entries registered with Before and After reliably bracket them. The stack
// freezes on Build; registering afterwards panics, because the pipeline shape
// is part of application configuration, not runtime state.
//
// Individual middleware keeps the familiar wrapping signature:
//
//	func LoggingMiddleware(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        start := time.Now()
//	        err := next(c)
//	        c.LogInfo("request processed", "duration", time.Since(start))
//	        return err
//	    }
//	}
//
// Middleware can inspect/modify the request, short-circuit processing, or wrap
// the response. Short-circuiting is ordinary control flow: return without
// calling next and no later stage runs.
//
// # Identity
//
// Context carries two shortcuts over the session system, loading the
// session lazily on first touch and degrading to safe defaults when no
// sessions are configured: UserID() returns the authenticated user's ID
// or "", and IsAuthenticated() reports whether there is one.
//
// # Error Handling
//
// Errors returned from handlers trigger the ErrorHandler:
//
//	func customErrorHandler(c internal.Context, err error) error {
//	    if httpErr := internal.AsHTTPError(err); httpErr != nil {
//	        return c.JSON(httpErr.Code, map[string]string{"error": httpErr.Message})
//	    }
//	    c.LogError("unhandled error", "error", err)
//	    return c.Error(http.StatusInternalServerError, "internal server error")
//	}
//
// Client mistakes surface as 4xx responses with precise messages; everything
// else is logged with detail and rendered as a generic 5xx.
//
// # Server Runtime
//
// A single app serves with its own Run method; the package-level Run
// adds host-based routing on top, with the first argument as fallback:
//
//	// Single app
//	err := app.Run(":8080", internal.Logger(log))
//
//	// Multi-domain: uploads on their own host, web as fallback
//	err := internal.Run(webApp,
//	    internal.Domain("uploads.acme.com", uploadApp),
//	    internal.Domain("*.cdn.acme.com", mirrorApp),
//	    internal.Address(":8080"),
//	)
//
// # Conventions
//
// The framework stays out of business logic. No reflection, no service
// container; dependencies are visible in main.go and flow through
// constructors. Packages under pkg/ never read framework context values;
// anything they need arrives as a parameter.
//
// See the intake package documentation for the public API and usage examples.
package internal
