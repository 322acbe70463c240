package middlewares_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/middlewares"
)

func TestPanicErrorMessage(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		value any
		want  string
	}{
		{"disk full", "panic: disk full"},
		{413, "panic: 413"},
		{fmt.Errorf("presign: %w", context.DeadlineExceeded), "panic: presign: context deadline exceeded"},
		{nil, "panic: <nil>"},
	} {
		err := &middlewares.PanicError{Value: tc.value}
		assert.Equal(t, tc.want, err.Error())
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "request timeout after 30s",
		(&middlewares.TimeoutError{Duration: 30 * time.Second}).Error())
	assert.Equal(t, "request timeout after 250ms",
		(&middlewares.TimeoutError{Duration: 250 * time.Millisecond}).Error())
}

func TestPanicErrorUnwrapping(t *testing.T) {
	t.Parallel()

	pe := &middlewares.PanicError{Value: "upload handler exploded", Stack: []byte("goroutine 1")}
	wrapped := fmt.Errorf("request failed: %w", pe)

	require.True(t, middlewares.IsPanicError(wrapped))

	got, ok := middlewares.AsPanicError(wrapped)
	require.True(t, ok)
	assert.Equal(t, pe.Value, got.Value)
	assert.Equal(t, pe.Stack, got.Stack)

	// Joined errors unwrap too.
	assert.True(t, middlewares.IsPanicError(errors.Join(errors.New("other"), pe)))

	assert.False(t, middlewares.IsPanicError(nil))
	got, ok = middlewares.AsPanicError(nil)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestTimeoutErrorUnwrapping(t *testing.T) {
	t.Parallel()

	te := &middlewares.TimeoutError{Duration: 5 * time.Second}
	wrapped := fmt.Errorf("upload aborted: %w", te)

	require.True(t, middlewares.IsTimeoutError(wrapped))

	got, ok := middlewares.AsTimeoutError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, got.Duration)

	assert.False(t, middlewares.IsTimeoutError(errors.New("slow disk")))
	assert.False(t, middlewares.IsTimeoutError(nil))

	got, ok = middlewares.AsTimeoutError(nil)
	assert.False(t, ok)
	assert.Nil(t, got)
}
