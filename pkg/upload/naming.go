package upload

import (
	"github.com/dmitrymomot/intake/pkg/id"
)

// StorageName generates the name a file is stored under. The name is a
// fresh ULID plus the original file's lower-cased extension, so nothing
// from the client-supplied filename reaches the storage path except the
// extension, and only when that extension is a plain alphanumeric
// token. ULIDs sort by creation time, which keeps directory listings
// chronological.
func StorageName(original string) string {
	ext := fileExt(original)
	if ext == "" || !safeExt(ext) {
		return id.NewULID()
	}
	return id.NewULID() + "." + ext
}

// safeExt reports whether a lower-cased extension can be embedded in a
// storage path as-is.
func safeExt(ext string) bool {
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
