package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func applyPut(opts ...Option) putOptions {
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func applyURL(opts ...URLOption) urlOptions {
	var o urlOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func TestPutOptions(t *testing.T) {
	t.Parallel()

	t.Run("no options leave the zero profile", func(t *testing.T) {
		t.Parallel()

		o := applyPut()
		require.Equal(t, putOptions{}, o)
	})

	t.Run("a full upload profile composes", func(t *testing.T) {
		t.Parallel()

		o := applyPut(
			WithTenant("acme"),
			WithPrefix("avatars"),
			WithContentType("image/webp"),
			WithACL(ACLPublicRead),
		)
		require.Equal(t, "acme", o.tenant)
		require.Equal(t, "avatars", o.prefix)
		require.Equal(t, "image/webp", o.contentType)
		require.Equal(t, ACLPublicRead, o.acl)
		require.Empty(t, o.key, "key generation stays on without WithKey")
	})

	t.Run("WithKey pins the object name", func(t *testing.T) {
		t.Parallel()

		o := applyPut(WithKey("exports/2026/q3.csv"))
		require.Equal(t, "exports/2026/q3.csv", o.key)
	})
}

func TestURLOptions(t *testing.T) {
	t.Parallel()

	t.Run("expiry alone does not force signing", func(t *testing.T) {
		t.Parallel()

		o := applyURL(WithExpiry(time.Hour))
		require.Equal(t, time.Hour, o.expiry)
		require.False(t, o.forceSigned)
		require.False(t, o.forcePublic)
	})

	t.Run("an attachment implies a signed link", func(t *testing.T) {
		t.Parallel()

		o := applyURL(WithDownload("report.pdf"))
		require.Equal(t, "report.pdf", o.downloadName)
		require.True(t, o.forceSigned)
	})

	t.Run("WithSigned overrides expiry only when positive", func(t *testing.T) {
		t.Parallel()

		o := applyURL(WithExpiry(DefaultURLExpiry), WithSigned(0))
		require.True(t, o.forceSigned)
		require.Equal(t, DefaultURLExpiry, o.expiry)

		o = applyURL(WithExpiry(DefaultURLExpiry), WithSigned(30*time.Minute))
		require.Equal(t, 30*time.Minute, o.expiry)
	})

	t.Run("WithPublic flips only its own flag", func(t *testing.T) {
		t.Parallel()

		o := applyURL(WithPublic())
		require.True(t, o.forcePublic)
		require.False(t, o.forceSigned)
	})

	t.Run("download plus expiry compose", func(t *testing.T) {
		t.Parallel()

		o := applyURL(WithExpiry(time.Hour), WithDownload("export.zip"))
		require.Equal(t, time.Hour, o.expiry)
		require.Equal(t, "export.zip", o.downloadName)
		require.True(t, o.forceSigned)
	})
}
