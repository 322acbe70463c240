package cache

import "errors"

var (
	// ErrNotFound reports a missing or expired key.
	ErrNotFound = errors.New("cache: not found")

	// ErrClosed reports a write against a closed cache.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal wraps value serialization failures.
	ErrMarshal = errors.New("cache: marshal value")

	// ErrUnmarshal wraps value deserialization failures.
	ErrUnmarshal = errors.New("cache: unmarshal value")
)
