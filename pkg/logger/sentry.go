package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration settings. Fields carry koanf
// tags so the struct slots into pkg/config under a `sentry` block,
// e.g. INTAKE_SENTRY__DSN.
type SentryConfig struct {
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`

	// MinLevel is the lowest level forwarded as Sentry logs.
	// Errors always become Sentry issues.
	MinLevel slog.Level `koanf:"min_level"`
}

// NewWithSentry creates a logger that writes to stdout and forwards
// warnings and errors to Sentry. An empty DSN falls back to stdout
// only, so local development needs no special casing. Extractors apply
// to both destinations.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})

	if cfg.DSN == "" {
		return slog.New(Decorate(stdout, extractors...))
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	})
	if err != nil {
		// A bad DSN should not take the service down with it.
		slog.New(stdout).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(Decorate(stdout, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(Decorate(fanout{stdout, sentryHandler}, extractors...))
}
