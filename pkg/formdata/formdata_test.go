package formdata_test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/intake/pkg/formdata"
)

// buildForm assembles a multipart body with mime/multipart so decoded
// output can be checked against what a real client sends.
func buildForm(t *testing.T, build func(w *multipart.Writer)) (body []byte, boundary string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	build(w)
	require.NoError(t, w.Close())

	return buf.Bytes(), w.Boundary()
}

func TestBoundary(t *testing.T) {
	t.Parallel()

	t.Run("plain boundary", func(t *testing.T) {
		t.Parallel()

		b, err := formdata.Boundary("multipart/form-data; boundary=xYzBoundary123")
		require.NoError(t, err)
		require.Equal(t, "xYzBoundary123", b)
	})

	t.Run("quoted boundary with extra params", func(t *testing.T) {
		t.Parallel()

		b, err := formdata.Boundary(`multipart/form-data; charset=utf-8; boundary="quoted-boundary"`)
		require.NoError(t, err)
		require.Equal(t, "quoted-boundary", b)
	})

	t.Run("writer content type round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		b, err := formdata.Boundary(w.FormDataContentType())
		require.NoError(t, err)
		require.Equal(t, w.Boundary(), b)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()

		_, err := formdata.Boundary("application/json")
		require.ErrorIs(t, err, formdata.ErrNotMultipart)
	})

	t.Run("empty content type", func(t *testing.T) {
		t.Parallel()

		_, err := formdata.Boundary("")
		require.ErrorIs(t, err, formdata.ErrNotMultipart)
	})

	t.Run("missing boundary parameter", func(t *testing.T) {
		t.Parallel()

		_, err := formdata.Boundary("multipart/form-data")
		require.ErrorIs(t, err, formdata.ErrNoBoundary)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()

		_, err := formdata.Boundary("multipart/form-data; =;;")
		require.ErrorIs(t, err, formdata.ErrNotMultipart)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("fields and file round trip", func(t *testing.T) {
		t.Parallel()

		// PNG signature followed by bytes that look like framing:
		// CRLFs, double dashes, and an empty-line sequence.
		payload := append([]byte("\x89PNG\r\n\x1a\n"), []byte("--not-a-boundary\r\n\r\nbinary\r\ntail")...)

		body, boundary := buildForm(t, func(w *multipart.Writer) {
			require.NoError(t, w.WriteField("disk", "uploads"))
			require.NoError(t, w.WriteField("uploadType", "image"))

			fw, err := w.CreateFormFile("file", "photo.png")
			require.NoError(t, err)
			_, err = fw.Write(payload)
			require.NoError(t, err)
		})

		parts := formdata.Decode(body, boundary)
		require.Len(t, parts, 3)

		require.Equal(t, "disk", parts[0].Name)
		require.False(t, parts[0].IsFile())
		require.Equal(t, "uploads", parts[0].Value())

		require.Equal(t, "uploadType", parts[1].Name)
		require.Equal(t, "image", parts[1].Value())

		require.Equal(t, "file", parts[2].Name)
		require.True(t, parts[2].IsFile())
		require.Equal(t, "photo.png", parts[2].Filename)
		require.Equal(t, "application/octet-stream", parts[2].ContentType)
		require.Equal(t, payload, parts[2].Data)
	})

	t.Run("payload bytes are exact", func(t *testing.T) {
		t.Parallel()

		// Trailing CRLF inside the data must survive; only the framing
		// CRLF before the next marker is stripped.
		payload := []byte("line one\r\nline two\r\n")

		body, boundary := buildForm(t, func(w *multipart.Writer) {
			fw, err := w.CreateFormFile("file", "log.txt")
			require.NoError(t, err)
			_, err = fw.Write(payload)
			require.NoError(t, err)
		})

		parts := formdata.Decode(body, boundary)
		require.Len(t, parts, 1)
		require.Equal(t, payload, parts[0].Data)
	})

	t.Run("empty file payload", func(t *testing.T) {
		t.Parallel()

		body, boundary := buildForm(t, func(w *multipart.Writer) {
			_, err := w.CreateFormFile("file", "empty.bin")
			require.NoError(t, err)
		})

		parts := formdata.Decode(body, boundary)
		require.Len(t, parts, 1)
		require.Equal(t, "empty.bin", parts[0].Filename)
		require.Empty(t, parts[0].Data)
	})

	t.Run("filename with escaped quote", func(t *testing.T) {
		t.Parallel()

		body, boundary := buildForm(t, func(w *multipart.Writer) {
			fw, err := w.CreateFormFile("file", `we"ird.png`)
			require.NoError(t, err)
			_, err = fw.Write([]byte("data"))
			require.NoError(t, err)
		})

		parts := formdata.Decode(body, boundary)
		require.Len(t, parts, 1)
		require.Equal(t, `we"ird.png`, parts[0].Filename)
		require.Equal(t, []byte("data"), parts[0].Data)
	})

	t.Run("part without content disposition", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			"Content-Type: text/plain\r\n" +
			"\r\n" +
			"anonymous\r\n" +
			"--b1--\r\n"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Empty(t, parts[0].Name)
		require.Empty(t, parts[0].Filename)
		require.Equal(t, "text/plain", parts[0].ContentType)
		require.Equal(t, "anonymous", parts[0].Value())
	})

	t.Run("part without headers", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			"\r\n" +
			"bare payload\r\n" +
			"--b1--\r\n"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Empty(t, parts[0].Name)
		require.Equal(t, "bare payload", parts[0].Value())
	})

	t.Run("truncated body keeps earlier parts", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			`Content-Disposition: form-data; name="first"` + "\r\n" +
			"\r\n" +
			"complete\r\n" +
			"--b1\r\n" +
			`Content-Disposition: form-data; name="second"; filename="cut.bin"`

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Equal(t, "first", parts[0].Name)
		require.Equal(t, "complete", parts[0].Value())
	})

	t.Run("missing closing boundary drops the open part", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			`Content-Disposition: form-data; name="only"` + "\r\n" +
			"\r\n" +
			"never terminated"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Empty(t, parts)
	})

	t.Run("span without header terminator is skipped", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			"Content-Disposition: form-data; name=\"broken\"" +
			"--b1\r\n" +
			`Content-Disposition: form-data; name="good"` + "\r\n" +
			"\r\n" +
			"value\r\n" +
			"--b1--\r\n"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Equal(t, "good", parts[0].Name)
	})

	t.Run("preamble before first boundary is ignored", func(t *testing.T) {
		t.Parallel()

		raw := "ignore this preamble\r\n" +
			"--b1\r\n" +
			`Content-Disposition: form-data; name="field"` + "\r\n" +
			"\r\n" +
			"ok\r\n" +
			"--b1--\r\n"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Equal(t, "field", parts[0].Name)
		require.Equal(t, "ok", parts[0].Value())
	})

	t.Run("empty inputs", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, formdata.Decode(nil, "b1"))
		require.Empty(t, formdata.Decode([]byte("--b1--"), "b1"))
		require.Empty(t, formdata.Decode([]byte("some body"), ""))
	})

	t.Run("header names are case insensitive", func(t *testing.T) {
		t.Parallel()

		raw := "--b1\r\n" +
			`CONTENT-DISPOSITION: form-data; name="field"; filename="up.txt"` + "\r\n" +
			"CoNtEnT-tYpE: text/plain\r\n" +
			"\r\n" +
			"data\r\n" +
			"--b1--\r\n"

		parts := formdata.Decode([]byte(raw), "b1")
		require.Len(t, parts, 1)
		require.Equal(t, "field", parts[0].Name)
		require.Equal(t, "up.txt", parts[0].Filename)
		require.Equal(t, "text/plain", parts[0].ContentType)
	})
}
