// Package logger builds the slog loggers the file service runs on:
// JSON to stdout, per-request context attributes, and optional Sentry
// forwarding for warnings and errors.
//
// [New] is the everyday constructor. Pass it extractors and every log
// line written with a Context picks up the request-scoped values:
//
//	type tenantKey struct{}
//
//	tenant := func(ctx context.Context) (slog.Attr, bool) {
//	    if id, ok := ctx.Value(tenantKey{}).(string); ok && id != "" {
//	        return slog.String("tenant", id), true
//	    }
//	    return slog.Attr{}, false
//	}
//
//	log := logger.New(tenant, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "upload stored", slog.String("disk", "s3"))
//	// {"level":"INFO","msg":"upload stored","disk":"s3","tenant":"acme","request_id":"01J..."}
//
// Extractors run on every record, so the values are always current.
// Returning false leaves the attribute off that line.
//
// [NewWithSentry] adds error tracking on top of the same stdout
// stream:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//	    DSN:         cfg.Sentry.DSN,
//	    Environment: "production",
//	}, middlewares.RequestIDExtractor())
//
// Errors open Sentry issues; warnings ride along as context. With an
// empty DSN the call degrades to plain stdout logging, which keeps one
// code path for development and production.
//
// [Decorate] exposes the extractor mechanism for callers that bring
// their own handler, and [NewNope] returns a discard-everything logger
// for components where logging was never configured.
package logger
