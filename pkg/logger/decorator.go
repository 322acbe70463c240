package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a request context.
// Returning false omits the attribute for that record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Decorate wraps next so every record passes through the extractors
// first. Request-scoped values like request, tenant, and user IDs then
// show up on each log line without handlers spelling them out. Nil
// extractors are dropped.
func Decorate(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	return &extractorHandler{next: next, extractors: kept}
}

// extractorHandler runs its extractors on every Handle call, so
// context values are read fresh per record rather than frozen at
// logger construction.
type extractorHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *extractorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *extractorHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *extractorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractorHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractorHandler) WithGroup(name string) slog.Handler {
	return &extractorHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
