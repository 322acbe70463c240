package storage

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// MIMEOctetStream is the fallback content type when nothing better is
// known about a file.
const MIMEOctetStream = "application/octet-stream"

// sniffLen is how many leading bytes http.DetectContentType needs.
const sniffLen = 512

// mimeExtensions maps normalized MIME types to the extension stored keys
// are minted with.
var mimeExtensions = map[string]string{
	// Images
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/x-icon":  ".ico",
	"image/heic":    ".heic",
	"image/heif":    ".heif",
	"image/avif":    ".avif",
	// Documents
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.ms-powerpoint":                                             ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"application/rtf": ".rtf",
	// Text
	"text/plain": ".txt",
	"text/csv":   ".csv",
	"text/html":  ".html",
	"text/css":   ".css",
	// Data
	"application/json":       ".json",
	"application/xml":        ".xml",
	"application/javascript": ".js",
	// Audio
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",
	"audio/webm": ".weba",
	"audio/aac":  ".aac",
	"audio/flac": ".flac",
	"audio/mp4":  ".m4a",
	// Video
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"video/ogg":        ".ogv",
	"video/quicktime":  ".mov",
	"video/x-msvideo":  ".avi",
	"video/x-matroska": ".mkv",
	// Archives
	"application/zip":              ".zip",
	"application/gzip":             ".gz",
	"application/x-tar":            ".tar",
	"application/x-7z-compressed":  ".7z",
	"application/x-rar-compressed": ".rar",
}

// ExtFromMIME returns the preferred file extension for a MIME type, or ""
// when the type is unknown. Parameters like charset are ignored.
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// normalizeMIME lowercases a MIME type and strips parameters.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// detectMIME sniffs a content type from the reader's magic bytes. It
// fills in serving metadata when no declared type is available and is
// never an upload gate. Detection failure reports octet-stream.
func detectMIME(r io.Reader) string {
	head := make([]byte, sniffLen)
	n, err := r.Read(head)
	if n == 0 && err != nil {
		return MIMEOctetStream
	}
	return http.DetectContentType(head[:n])
}

// detectMIMESeekable sniffs a content type and hands back a body the AWS
// SDK can sign, which requires io.ReadSeeker. A seekable input is sniffed
// in place and rewound; anything else is buffered whole.
func detectMIMESeekable(r io.Reader) (string, io.ReadSeeker) {
	if rs, ok := r.(io.ReadSeeker); ok {
		head := make([]byte, sniffLen)
		n, _ := rs.Read(head)
		_, _ = rs.Seek(0, io.SeekStart)
		if n == 0 {
			return MIMEOctetStream, rs
		}
		return http.DetectContentType(head[:n]), rs
	}

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	return http.DetectContentType(data), bytes.NewReader(data)
}
