package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/pkg/logger"
)

type tenantKey struct{}

func tenantExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(tenantKey{}).(string); ok && id != "" {
		return slog.String("tenant", id), true
	}
	return slog.Attr{}, false
}

// jsonLines decodes each line the handler wrote.
func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		out = append(out, line)
	}
	return out
}

func TestDecorate(t *testing.T) {
	t.Parallel()

	t.Run("extractor value lands on the record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(logger.Decorate(slog.NewJSONHandler(&buf, nil), tenantExtractor))

		ctx := context.WithValue(context.Background(), tenantKey{}, "acme")
		log.InfoContext(ctx, "upload stored", slog.String("disk", "s3"))

		lines := jsonLines(t, &buf)
		require.Len(t, lines, 1)
		require.Equal(t, "acme", lines[0]["tenant"])
		require.Equal(t, "s3", lines[0]["disk"])
	})

	t.Run("extractor declines on a bare context", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(logger.Decorate(slog.NewJSONHandler(&buf, nil), tenantExtractor))

		log.Info("upload stored")

		lines := jsonLines(t, &buf)
		require.Len(t, lines, 1)
		require.NotContains(t, lines[0], "tenant")
	})

	t.Run("nil extractors are tolerated", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(logger.Decorate(slog.NewJSONHandler(&buf, nil), nil, tenantExtractor, nil))

		ctx := context.WithValue(context.Background(), tenantKey{}, "globex")
		log.InfoContext(ctx, "upload stored")

		require.Equal(t, "globex", jsonLines(t, &buf)[0]["tenant"])
	})

	t.Run("extraction survives With and WithGroup", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(logger.Decorate(slog.NewJSONHandler(&buf, nil), tenantExtractor))

		derived := log.With(slog.String("component", "uploads")).WithGroup("file")
		ctx := context.WithValue(context.Background(), tenantKey{}, "acme")
		derived.InfoContext(ctx, "stored", slog.String("key", "a/b.png"))

		line := jsonLines(t, &buf)[0]
		require.Equal(t, "uploads", line["component"])
		fileGroup, ok := line["file"].(map[string]any)
		require.True(t, ok, "grouped attrs should nest under the group name")
		require.Equal(t, "a/b.png", fileGroup["key"])
		require.Equal(t, "acme", fileGroup["tenant"],
			"extracted attrs are appended to the record, so they follow the open group")
	})

	t.Run("level gating follows the wrapped handler", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
		log := slog.New(logger.Decorate(h, tenantExtractor))

		log.Info("dropped")
		log.Warn("kept")

		lines := jsonLines(t, &buf)
		require.Len(t, lines, 1)
		require.Equal(t, "kept", lines[0]["msg"])
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Error("goes nowhere", slog.String("disk", "s3"))
}
