package session

import (
	"context"
	"time"
)

// Store is the persistence contract shared by the memory, Postgres,
// and Redis backends. Lookup is by cookie token; mutation is by
// session ID, so a rotated token cannot be used to address the row it
// replaced.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get resolves a cookie token. Unknown tokens yield ErrNotFound,
	// sessions past their expiry yield ErrExpired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update writes back a modified session, including a rotated
	// token.
	Update(ctx context.Context, s *Session) error

	// Delete removes one session by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session a user holds, which is the
	// backing for "log out everywhere".
	DeleteByUserID(ctx context.Context, userID string) error

	// Touch bumps LastActiveAt without reading the whole session.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error

	// DeleteExpired sweeps out sessions past their expiry and reports
	// how many went. The janitor calls this on a schedule.
	DeleteExpired(ctx context.Context) (int64, error)
}
