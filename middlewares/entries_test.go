package middlewares_test

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/internal"
	"github.com/dmitrymomot/intake/middlewares"
)

// The built-in entries must keep their relative order: entries in the
// 400–600 band so application code registered with Before/After reliably
// brackets them.
func TestBuiltinEntryPlacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entry    internal.Entry
		stage    internal.Stage
		priority int
	}{
		{"recover", middlewares.RecoverEntry(), internal.StageErrors, internal.PriorityDefault},
		{"cors", middlewares.CORSEntry(), internal.StageSecurity, internal.PriorityEarly},
		{"timeout", middlewares.TimeoutEntry(5 * time.Second), internal.StageSecurity, internal.PriorityDefault},
		{"requestid", middlewares.RequestIDEntry(), internal.StageLogging, internal.PriorityEarly},
		{"logging", middlewares.LoggingEntry(), internal.StageLogging, internal.PriorityDefault},
		{"static", middlewares.StaticEntry("/assets", fstest.MapFS{}), internal.StageAssets, internal.PriorityDefault},
		{"opstoken", middlewares.OpsTokenEntry("secret"), internal.StagePrivileged, internal.PriorityDefault},
		{"session", middlewares.SessionEntry(), internal.StageAuth, internal.PriorityEarly},
		{"csrf", middlewares.CSRFEntry(), internal.StageAuth, internal.PriorityDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.name, tt.entry.Name)
			require.Equal(t, tt.stage, tt.entry.Stage)
			require.Equal(t, tt.priority, tt.entry.Priority)
			require.NotNil(t, tt.entry.Wrap)
			require.GreaterOrEqual(t, tt.entry.Priority, internal.PriorityEarly)
			require.LessOrEqual(t, tt.entry.Priority, internal.PriorityLate)
		})
	}
}

// Composing every built-in produces a chain whose execution order follows
// the stage ordering, not registration order.
func TestBuiltinEntriesComposeInStageOrder(t *testing.T) {
	t.Parallel()

	entries := []internal.Entry{
		middlewares.CSRFEntry(),
		middlewares.RecoverEntry(),
		middlewares.LoggingEntry(),
		middlewares.SessionEntry(),
		middlewares.CORSEntry(),
		middlewares.RequestIDEntry(),
		middlewares.TimeoutEntry(time.Second),
		middlewares.OpsTokenEntry("secret"),
		middlewares.StaticEntry("/assets", fstest.MapFS{}),
	}

	stack := internal.NewStack()
	for _, e := range entries {
		stack.Add(e)
	}

	sorted := stack.Sorted()
	require.Len(t, sorted, len(entries))

	wantOrder := []string{
		"recover",
		"cors", "timeout",
		"requestid", "logging",
		"static",
		"opstoken",
		"session", "csrf",
	}
	for i, name := range wantOrder {
		require.Equal(t, name, sorted[i].Name, "position %d", i)
	}
}
