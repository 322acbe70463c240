package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store.
//
// It keeps sessions in two maps, one keyed by token for lookup and one
// mapping session ID to the current token so updates survive token
// rotation. Sessions are copied on the way in and out, so callers can
// mutate what they hold without racing the store.
//
// Expired sessions are reported as ErrExpired on Get but stay in memory
// until DeleteExpired runs; wire the store into a periodic cleanup job.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Session
	byID    map[string]string
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]*Session),
		byID:    make(map[string]string),
	}
}

// Create persists a new session.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byToken[s.Token] = cloneSession(s)
	m.byID[s.ID] = s.Token
	return nil
}

// Get retrieves a session by its token.
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return cloneSession(sess), nil
}

// Update saves changes to an existing session. The session is located by
// ID, so a rotated token replaces the old token mapping.
func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldToken, ok := m.byID[s.ID]
	if !ok {
		return ErrNotFound
	}
	if oldToken != s.Token {
		delete(m.byToken, oldToken)
	}

	m.byToken[s.Token] = cloneSession(s)
	m.byID[s.ID] = s.Token
	return nil
}

// Delete removes a session by its ID. Deleting a missing session is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteLocked(id)
	return nil
}

// DeleteByUserID removes all sessions belonging to the given user.
func (m *MemoryStore) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, token := range m.byID {
		sess, ok := m.byToken[token]
		if !ok {
			continue
		}
		if sess.UserID != nil && *sess.UserID == userID {
			delete(m.byToken, token)
			delete(m.byID, id)
		}
	}
	return nil
}

// Touch updates the LastActiveAt timestamp of a session.
func (m *MemoryStore) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.byToken[token].LastActiveAt = lastActiveAt
	return nil
}

// DeleteExpired removes all expired sessions and returns the number removed.
func (m *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, token := range m.byID {
		sess, ok := m.byToken[token]
		if !ok {
			delete(m.byID, id)
			continue
		}
		if sess.IsExpired() {
			delete(m.byToken, token)
			delete(m.byID, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// deleteLocked removes a session by ID. Caller must hold the write lock.
func (m *MemoryStore) deleteLocked(id string) {
	token, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byToken, token)
	delete(m.byID, id)
}

// cloneSession copies a session including its Values map.
func cloneSession(s *Session) *Session {
	c := *s
	if s.Values != nil {
		c.Values = maps.Clone(s.Values)
	}
	return &c
}

var _ Store = (*MemoryStore)(nil)
