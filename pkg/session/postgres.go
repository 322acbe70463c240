package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists sessions in a PostgreSQL table.
//
// The pool should be obtained from pkg/db.Connect. The store expects a
// "sessions" table with this shape:
//
//	CREATE TABLE sessions (
//	    id             TEXT PRIMARY KEY,
//	    token          TEXT NOT NULL UNIQUE,
//	    user_id        TEXT,
//	    ip             TEXT NOT NULL DEFAULT '',
//	    user_agent     TEXT NOT NULL DEFAULT '',
//	    data           JSONB NOT NULL DEFAULT '{}',
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    last_active_at TIMESTAMPTZ NOT NULL,
//	    expires_at     TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX sessions_user_id_idx ON sessions (user_id);
//	CREATE INDEX sessions_expires_at_idx ON sessions (expires_at);
//
// Values survive a JSONB round trip, so non-string types come back as
// their JSON equivalents (numbers as float64, nested maps as
// map[string]any).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed session store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a new session.
func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	data, err := marshalValues(s.Values)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, user_id, ip, user_agent, data, created_at, last_active_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Token, s.UserID, s.IP, s.UserAgent, data,
		s.CreatedAt, s.LastActiveAt, s.ExpiresAt,
	)
	return err
}

// Get retrieves a session by its token.
func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, token, user_id, ip, user_agent, data, created_at, last_active_at, expires_at
		FROM sessions
		WHERE token = $1`,
		token,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

// Update saves changes to an existing session, located by ID so token
// rotation is a plain column update.
func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	data, err := marshalValues(s.Values)
	if err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE sessions
		SET token = $2, user_id = $3, ip = $4, user_agent = $5, data = $6,
		    last_active_at = $7, expires_at = $8
		WHERE id = $1`,
		s.ID, s.Token, s.UserID, s.IP, s.UserAgent, data,
		s.LastActiveAt, s.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session by its ID. Deleting a missing session is a no-op.
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteByUserID removes all sessions belonging to the given user.
func (p *PostgresStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// Touch updates the LastActiveAt timestamp without loading the session.
func (p *PostgresStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET last_active_at = $2 WHERE id = $1`,
		id, lastActiveAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the number removed.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func marshalValues(values map[string]any) ([]byte, error) {
	if values == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("session: marshal values: %w", err)
	}
	return data, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var (
		sess Session
		data []byte
	)
	err := row.Scan(
		&sess.ID, &sess.Token, &sess.UserID, &sess.IP, &sess.UserAgent,
		&data, &sess.CreatedAt, &sess.LastActiveAt, &sess.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &sess.Values); err != nil {
			return nil, fmt.Errorf("session: unmarshal values: %w", err)
		}
	}
	return &sess, nil
}

var _ Store = (*PostgresStore)(nil)
