// Package intake provides a small, opinionated framework for HTTP file
// intake services: multipart uploads, pluggable storage disks, sessions,
// and a stage-ordered middleware pipeline.
//
// Intake favors explicit wiring over magic. Apps are assembled from
// options, middleware is registered into named stages with deterministic
// ordering, and business logic stays in plain Go handlers.
//
// # Quick Start
//
// Create an application with intake.New(), configure it with options,
// and call Run() to start the HTTP server:
//
//	local, _ := storage.NewLocal("./data/files", "/files")
//
//	app := intake.New(
//	    intake.WithEntry(middlewares.RecoverEntry()),
//	    intake.WithEntry(middlewares.LoggingEntry()),
//	    intake.WithStorage(local),
//	    intake.WithHandlers(
//	        intake.NewUploadHandler(
//	            intake.WithUploadPolicy(upload.ImagePolicy()),
//	        ),
//	    ),
//	)
//
//	if err := app.Run(":8080", intake.Logger(logger)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type FilesHandler struct {
//	    disks *storage.Disks
//	}
//
//	func (h *FilesHandler) Routes(r intake.Router) {
//	    r.GET("/files/{key}", h.serve)
//	    r.DELETE("/files/{key}", h.remove)
//	}
//
//	func (h *FilesHandler) remove(c intake.Context) error {
//	    disk, err := c.Disk("")
//	    if err != nil {
//	        return err
//	    }
//	    if err := disk.Delete(c, c.Param("key")); err != nil {
//	        return err
//	    }
//	    return c.NoContent(http.StatusNoContent)
//	}
//
// # Pipeline
//
// Middleware is registered into stages that execute in a fixed order:
// error handling, security, logging, asset serving, privileged API, auth,
// application. Within a stage, entries order by priority. Registration
// order never matters:
//
//	app := intake.New(
//	    intake.WithEntry(middlewares.CSRFEntry()),      // auth stage
//	    intake.WithEntry(middlewares.RecoverEntry()),   // error stage, still outermost
//	    intake.WithStageMiddleware(intake.StageSecurity, myRateLimit),
//	)
//
// The pipeline freezes when New returns; late registration panics.
//
// # Uploads
//
// The upload handler accepts multipart POSTs, applies a validation policy
// (size, extension, MIME type), stores the file on a disk under a
// collision-free key, and responds with JSON metadata. Policies can be
// declared in YAML and selected per request.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// ShutdownHook and startup work with StartupHook:
//
//	err := intake.Run(app,
//	    intake.StartupHook(jan.Start),
//	    intake.ShutdownHook(db.Shutdown(pool)),
//	)
//
// # Escape Hatch
//
// App.Router() exposes the underlying chi router for mounting into an
// existing server mux or for routes that bypass the pipeline.
package intake
