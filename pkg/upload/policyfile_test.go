package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPolicies(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		doc := []byte(`
policies:
  avatar:
    max_file_size: 5242880
    allowed_extensions: [jpg, jpeg, png, webp]
    allowed_mime_types: ["image/*"]
  attachment:
    max_file_size: 26214400
    allowed_extensions: [pdf, txt]
    allowed_mime_types: [application/pdf, text/plain]
  default:
    max_file_size: 10485760
`)

		set, err := LoadPolicies(doc)
		require.NoError(t, err)
		require.Len(t, set, 3)

		avatar, ok := set.Get("avatar")
		require.True(t, ok)
		require.Equal(t, int64(5242880), avatar.MaxFileSize)
		require.Equal(t, []string{"jpg", "jpeg", "png", "webp"}, avatar.AllowedExtensions)
		require.Equal(t, []string{"image/*"}, avatar.AllowedMIMETypes)

		require.NoError(t, avatar.Validate([]byte("x"), "me.png", "image/png"))
		require.Error(t, avatar.Validate([]byte("x"), "me.exe", ""))
	})

	t.Run("entries are normalized", func(t *testing.T) {
		t.Parallel()

		doc := []byte(`
policies:
  files:
    allowed_extensions: [".JPG", " png ", ""]
    allowed_mime_types: ["Image/PNG", " image/jpeg "]
`)

		set, err := LoadPolicies(doc)
		require.NoError(t, err)

		files := set["files"]
		require.Equal(t, []string{"jpg", "png"}, files.AllowedExtensions)
		require.Equal(t, []string{"image/png", "image/jpeg"}, files.AllowedMIMETypes)
	})

	t.Run("unknown name falls back to default", func(t *testing.T) {
		t.Parallel()

		set, err := LoadPolicies([]byte("policies:\n  default:\n    max_file_size: 1024\n"))
		require.NoError(t, err)

		p, ok := set.Get("anything")
		require.True(t, ok)
		require.Equal(t, int64(1024), p.MaxFileSize)
	})

	t.Run("unknown name without default", func(t *testing.T) {
		t.Parallel()

		set, err := LoadPolicies([]byte("policies:\n  avatar:\n    max_file_size: 1024\n"))
		require.NoError(t, err)

		_, ok := set.Get("anything")
		require.False(t, ok)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPolicies([]byte("policies: [not: a: map"))
		require.ErrorIs(t, err, ErrInvalidPolicyFile)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPolicies([]byte("policies: {}\n"))
		require.ErrorIs(t, err, ErrInvalidPolicyFile)

		_, err = LoadPolicies(nil)
		require.ErrorIs(t, err, ErrInvalidPolicyFile)
	})

	t.Run("negative size", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPolicies([]byte("policies:\n  bad:\n    max_file_size: -1\n"))
		require.ErrorIs(t, err, ErrInvalidPolicyFile)
		require.Contains(t, err.Error(), "bad")
	})
}

func TestLoadPoliciesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "uploads.yaml")
	doc := "policies:\n  avatar:\n    max_file_size: 2048\n    allowed_extensions: [png]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	set, err := LoadPoliciesFile(path)
	require.NoError(t, err)

	avatar, ok := set.Get("avatar")
	require.True(t, ok)
	require.Equal(t, int64(2048), avatar.MaxFileSize)

	_, err = LoadPoliciesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrInvalidPolicyFile)
}
