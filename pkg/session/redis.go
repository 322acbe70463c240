package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "session"

// RedisStore persists sessions in Redis.
//
// Each session is stored as JSON under a token-addressed key with a TTL
// matching the session expiry, so Redis removes expired sessions on its
// own. Two index structures support the non-token operations: a key
// mapping session ID to the current token, and a set per user holding
// that user's session IDs.
//
// Values survive a JSON round trip, so non-string types come back as
// their JSON equivalents (numbers as float64, nested maps as
// map[string]any).
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix overrides the default "session" key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisStore) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a Redis-backed session store.
// The client should be obtained from pkg/redis.Open or pkg/redis.MustOpen.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// sessionRecord is the JSON wire form of a session.
type sessionRecord struct {
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	UserID       *string        `json:"user_id,omitempty"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	Values       map[string]any `json:"values,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
}

func recordFrom(s *Session) sessionRecord {
	return sessionRecord{
		ID:           s.ID,
		Token:        s.Token,
		UserID:       s.UserID,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
		Values:       s.Values,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (rec sessionRecord) session() *Session {
	return &Session{
		ID:           rec.ID,
		Token:        rec.Token,
		UserID:       rec.UserID,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Values:       rec.Values,
		CreatedAt:    rec.CreatedAt,
		LastActiveAt: rec.LastActiveAt,
		ExpiresAt:    rec.ExpiresAt,
	}
}

// Create persists a new session with a TTL matching its expiry.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(recordFrom(s))
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(s.Token), data, ttl)
		pipe.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if s.UserID != nil && *s.UserID != "" {
			pipe.SAdd(ctx, r.userKey(*s.UserID), s.ID)
		}
		return nil
	})
	return err
}

// Get retrieves a session by its token.
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}

	sess := rec.session()
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

// Update saves changes to an existing session. If the token was rotated,
// the old token key is removed in the same transaction.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	oldToken, err := r.client.Get(ctx, r.idKey(s.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(recordFrom(s))
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if oldToken != s.Token {
			pipe.Del(ctx, r.tokenKey(oldToken))
		}
		pipe.Set(ctx, r.tokenKey(s.Token), data, ttl)
		pipe.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if s.UserID != nil && *s.UserID != "" {
			pipe.SAdd(ctx, r.userKey(*s.UserID), s.ID)
		}
		return nil
	})
	return err
}

// Delete removes a session by its ID. Deleting a missing session is a no-op.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	// Read the session to learn its user before removing the keys.
	sess, err := r.Get(ctx, token)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.tokenKey(token), r.idKey(id))
		if sess != nil && sess.UserID != nil && *sess.UserID != "" {
			pipe.SRem(ctx, r.userKey(*sess.UserID), id)
		}
		return nil
	})
	return err
}

// DeleteByUserID removes all sessions belonging to the given user.
func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		token, err := r.client.Get(ctx, r.idKey(id)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return err
		}
		if err := r.client.Del(ctx, r.tokenKey(token), r.idKey(id)).Err(); err != nil {
			return err
		}
	}

	return r.client.Del(ctx, r.userKey(userID)).Err()
}

// Touch updates the LastActiveAt timestamp without changing the TTL.
func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	data, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("session: unmarshal: %w", err)
	}
	rec.LastActiveAt = lastActiveAt

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return r.client.Set(ctx, r.tokenKey(token), updated, redis.KeepTTL).Err()
}

// DeleteExpired prunes user-index references whose sessions Redis has
// already expired, and returns the number pruned. Session keys themselves
// carry TTLs and never need manual cleanup.
func (r *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	var (
		pruned int64
		cursor uint64
	)

	pattern := r.prefix + ":user:*"
	for {
		keys, nextCursor, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return pruned, err
		}

		for _, key := range keys {
			ids, err := r.client.SMembers(ctx, key).Result()
			if err != nil {
				return pruned, err
			}
			for _, id := range ids {
				n, err := r.client.Exists(ctx, r.idKey(id)).Result()
				if err != nil {
					return pruned, err
				}
				if n == 0 {
					if err := r.client.SRem(ctx, key, id).Err(); err != nil {
						return pruned, err
					}
					pruned++
				}
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return pruned, nil
}

func (r *RedisStore) tokenKey(token string) string {
	return r.prefix + ":token:" + token
}

func (r *RedisStore) idKey(id string) string {
	return r.prefix + ":id:" + id
}

func (r *RedisStore) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}

var _ Store = (*RedisStore)(nil)
