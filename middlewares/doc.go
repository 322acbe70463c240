// Package middlewares provides the built-in middleware for intake
// applications.
//
// Every middleware comes in two forms: a plain constructor returning an
// intake Middleware, and an Entry constructor that also declares the
// pipeline stage and priority the middleware belongs to. Prefer the Entry
// form; the pipeline then orders everything by stage regardless of
// registration order:
//
//	app := intake.New(
//	    intake.WithEntry(middlewares.RecoverEntry()),
//	    intake.WithEntry(middlewares.CORSEntry()),
//	    intake.WithEntry(middlewares.TimeoutEntry(30*time.Second)),
//	    intake.WithEntry(middlewares.RequestIDEntry()),
//	    intake.WithEntry(middlewares.LoggingEntry()),
//	    intake.WithEntry(middlewares.StaticEntry("/assets", assetsFS)),
//	    intake.WithEntry(middlewares.OpsTokenEntry(cfg.OpsToken)),
//	    intake.WithEntry(middlewares.SessionEntry()),
//	    intake.WithEntry(middlewares.CSRFEntry()),
//	)
//
// The built-ins occupy these stages:
//
//	error-handling  Recover        catches panics, returns PanicError
//	security        CORS, Timeout  preflight + request deadlines
//	logging         RequestID, Logging
//	asset-serving   Static         short-circuits file requests
//	privileged-api  OpsToken       bearer-token guard for /ops
//	auth            Session, CSRF  session loading + token verification
//
// Built-in entries register in the 400–600 priority band. Application
// middleware added with intake.WithBefore runs ahead of the built-ins of
// its stage, intake.WithAfter behind them.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It keeps an
// incoming ID from X-Request-ID (or a configured header) and generates a
// ULID otherwise. Pair it with RequestIDExtractor so every log line made
// through the request context carries the ID:
//
//	app := intake.New(
//	    intake.WithLogger("api", middlewares.RequestIDExtractor()),
//	    intake.WithEntry(middlewares.RequestIDEntry()),
//	    intake.WithEntry(middlewares.LoggingEntry()),
//	)
//
// # Recover and Timeout
//
// Recover converts panics into *PanicError; Timeout aborts requests that
// exceed their deadline with *TimeoutError. Both surface through the
// app's ErrorHandler, where they can be mapped to status codes:
//
//	intake.WithErrorHandler(func(c intake.Context, err error) error {
//	    switch {
//	    case middlewares.IsPanicError(err):
//	        return c.Error(500, "Internal Server Error")
//	    case middlewares.IsTimeoutError(err):
//	        return c.Error(504, "Gateway Timeout")
//	    }
//	    return c.Error(500, err.Error())
//	})
//
// # CSRF
//
// CSRF verifies the per-session token on unsafe methods. The token comes
// from the X-CSRF-Token header, or from the csrf_token field of
// urlencoded forms. Multipart bodies are never parsed here, so upload
// handlers keep full control of the request body; multipart clients send
// the header. Webhook endpoints authenticated by other means can be
// exempted:
//
//	middlewares.CSRF(middlewares.WithCSRFSkipPaths("/webhooks/stripe"))
//
// # OpsToken
//
// OpsToken guards operational endpoints (default prefix /ops) with a
// static token compared in constant time. The token arrives as
// "Authorization: Bearer <token>" unless WithOpsTokenSources points the
// guard at another header or query parameter. An empty expected token
// fails closed so a missing configuration never exposes the surface.
package middlewares
