package logger

import (
	"io"
	"log/slog"
)

// NewNope returns a logger that drops everything. Components accept it
// as their default so logging stays opt-in.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
