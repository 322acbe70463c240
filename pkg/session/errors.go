package session

import "errors"

var (
	// ErrNotConfigured means the app was built without WithSession;
	// every session method surfaces it rather than a nil panic.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound covers both a token the store has never seen and a
	// request that carries no session at all.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired marks a session past its ExpiresAt. Stores return it
	// from Get so callers can mint a fresh session instead.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken rejects a malformed cookie token.
	ErrInvalidToken = errors.New("session: invalid token")
)
