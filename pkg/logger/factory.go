package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger on stdout at info level, decorated with
// the given extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(Decorate(h, extractors...))
}
