package session

import (
	"errors"
	"time"
)

// Session is the unit every store persists and every request carries.
// ID names the session server-side; Token is what the cookie holds, so
// a leaked database dump does not hand out valid cookies. Values is a
// free-form bag for per-visitor state such as upload wizard progress.
type Session struct {
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time

	UserID    *string        // nil while the visitor is anonymous
	Values    map[string]any
	ID        string
	Token     string
	IP        string // client address captured at creation
	UserAgent string

	dirty bool
	isNew bool
}

// New builds a session that is both new and dirty, so the first
// response persists it and sets the cookie.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user has been bound to the session.
// An empty UserID counts as anonymous.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// SetValue stores val under key and flags the session for saving.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue looks up key, reporting whether it was present.
func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes key. Deleting a key that was never set leaves the
// session clean, so read-only requests skip the store write.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// The dirty flag drives the end-of-request flush: handlers mutate, the
// manager saves once if anything changed, then clears the flag. The new
// flag survives until the first persist so the manager knows whether to
// Create or Update.

func (s *Session) IsDirty() bool { return s.dirty }

func (s *Session) ClearDirty() { s.dirty = false }

// MarkDirty forces a save even when Values were mutated in place,
// which SetValue cannot observe.
func (s *Session) MarkDirty() { s.dirty = true }

func (s *Session) IsNew() bool { return s.isNew }

func (s *Session) ClearNew() { s.isNew = false }

// IsExpired reports whether ExpiresAt has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value reads key as a T. A nil session and a missing key both return
// ErrNotFound; a value of the wrong type is an error rather than a
// silent zero.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: value for " + key + " has a different type")
	}

	return typed, nil
}

// ValueOr reads key as a T, falling back to defaultVal whenever Value
// would have errored.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
