package session

import (
	"context" // Context for Redis operations
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"time"    // Session lifetime

	"feedback_board/internal/utils" // Redis JSON helpers

	"github.com/google/uuid"       // Session ids
	"github.com/redis/go-redis/v9" // Redis client
)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user_sessions:"
	defaultTTL       = 24 * time.Hour
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages sessions in Redis. Each user also has a set of its live
// session ids so all of them can be dropped at once.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is the lifetime given to new sessions.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create opens a session for username.
func (s *Store) Create(ctx context.Context, username string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := utils.SetJSON(ctx, s.rdb, sessionKeyPrefix+sess.ID, sess, s.ttl); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	userKey := userKeyPrefix + username
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, userKey, sess.ID)
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("index session: %w", err)
	}
	return sess, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	found, err := utils.GetJSON(ctx, s.rdb, sessionKeyPrefix+id, &sess)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return Session{}, ErrNotFound
	}
	sess.ID = id
	return sess, nil
}

// Delete removes a session by id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.rdb.SRem(ctx, userKeyPrefix+sess.Username, id).Err(); err != nil {
		return fmt.Errorf("unindex session: %w", err)
	}
	return utils.DeleteKeys(ctx, s.rdb, sessionKeyPrefix+id)
}

// DeleteAllFor removes every session of username.
func (s *Store) DeleteAllFor(ctx context.Context, username string) error {
	userKey := userKeyPrefix + username
	ids, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userKey)
	return utils.DeleteKeys(ctx, s.rdb, keys...)
}
