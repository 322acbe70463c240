package internal

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/intake/pkg/hostrouter"
)

// Run starts an HTTP server for the given app and blocks until shutdown.
// It is a convenience wrapper over App.Run for callers that configure the
// address through options. Additional apps can be mounted per host with
// Domain; the given app then acts as the fallback.
//
// Example:
//
//	app := intake.New(
//	    intake.WithHandlers(intake.NewUploadHandler()),
//	)
//
//	err := intake.Run(app,
//	    intake.Address(":8080"),
//	    intake.Logger(slog),
//	    intake.ShutdownHook(db.Shutdown(pool)),
//	)
func Run(app *App, opts ...RunOption) error {
	if app == nil {
		return errors.New("intake.Run: no app configured")
	}

	cfg := buildRunConfig(opts...)

	var handler http.Handler = app.router
	if len(cfg.domains) > 0 {
		handler = hostrouter.New(cfg.domains, handler)
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}
