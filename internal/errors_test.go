package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/internal"
)

func TestHTTPErrorConstructors(t *testing.T) {
	t.Parallel()

	statuses := map[int]func(string, ...internal.HTTPErrorOption) *internal.HTTPError{
		http.StatusBadRequest:            internal.ErrBadRequest,
		http.StatusUnauthorized:          internal.ErrUnauthorized,
		http.StatusForbidden:             internal.ErrForbidden,
		http.StatusNotFound:              internal.ErrNotFound,
		http.StatusConflict:              internal.ErrConflict,
		http.StatusUnprocessableEntity:   internal.ErrUnprocessable,
		http.StatusRequestEntityTooLarge: internal.ErrRequestTooLarge,
		http.StatusInternalServerError:   internal.ErrInternal,
		http.StatusServiceUnavailable:    internal.ErrServiceUnavailable,
	}

	for status, construct := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()
			err := construct("upload rejected")
			require.Equal(t, status, err.StatusCode())
			require.Equal(t, http.StatusText(status), err.StatusText())
			require.Equal(t, "upload rejected", err.Error())
		})
	}
}

func TestHTTPErrorOptions(t *testing.T) {
	t.Parallel()

	cause := errors.New("s3: bucket unreachable")
	err := internal.ErrServiceUnavailable("storage unavailable",
		internal.WithErrorCode("storage_down"),
		internal.WithRequestID("req-8842"),
		internal.WithError(cause),
	)

	require.Equal(t, "storage_down", err.ErrorCode)
	require.Equal(t, "req-8842", err.RequestID)
	require.ErrorIs(t, err, cause, "the cause should survive for errors.Is")
	require.Equal(t, "storage unavailable", err.Error(),
		"the client message must not leak the cause")
}

func TestIsHTTPError(t *testing.T) {
	t.Parallel()

	notFound := internal.ErrNotFound("file not found")

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"bare HTTPError", notFound, true},
		{"wrapped once", fmt.Errorf("handler: %w", notFound), true},
		{"wrapped twice", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", notFound)), true},
		{"plain error", errors.New("disk full"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, internal.IsHTTPError(tc.err))
		})
	}
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("fields survive unwrapping", func(t *testing.T) {
		t.Parallel()
		inner := internal.ErrForbidden("not your file", internal.WithErrorCode("wrong_tenant"))
		got := internal.AsHTTPError(fmt.Errorf("authorize: %w", inner))

		require.NotNil(t, got)
		require.Equal(t, http.StatusForbidden, got.Code)
		require.Equal(t, "not your file", got.Message)
		require.Equal(t, "wrong_tenant", got.ErrorCode)
	})

	t.Run("plain error yields nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("disk full")))
	})

	t.Run("nil yields nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(nil))
	})
}
