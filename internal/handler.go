package internal

// Handler declares routes on a router.
//
// Example:
//
//	type MediaHandler struct {
//	    disks *storage.Disks
//	}
//
//	func (h *MediaHandler) Routes(r intake.Router) {
//	    r.GET("/media", h.listMedia)
//	    r.POST("/media/uploads", h.handleUpload)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the terminal handling contract: every component plugged
// into the pipeline, route handlers included, is a function from Context
// to error. Returning a non-nil error hands control to the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// A middleware may inspect or modify the request, short-circuit by
// returning before calling next, or act on the response after next
// returns. Wrappers must be safe for concurrent reentrant invocation:
// the composed chain is shared by every in-flight request.
//
// Example:
//
//	func RequireSession(next intake.HandlerFunc) intake.HandlerFunc {
//	    return func(c intake.Context) error {
//	        if _, err := c.Session(); err != nil {
//	            return c.Error(http.StatusUnauthorized, "session required")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
