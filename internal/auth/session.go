package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	defaultSessionTTL  = 24 * time.Hour
	defaultRememberTTL = 30 * 24 * time.Hour
)

// Store manages login sessions in Redis. A session key maps the random
// session id to the owning user's id.
type Store struct {
	rdb         *redis.Client
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewStore returns a new session store. rememberTTL applies to sessions
// created with remember set.
func NewStore(rdb *redis.Client, ttl, rememberTTL time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if rememberTTL <= 0 {
		rememberTTL = defaultRememberTTL
	}
	return &Store{rdb: rdb, ttl: ttl, rememberTTL: rememberTTL}
}

// Create stores a new session bound to userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64, remember bool) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	ttl := s.ttl
	if remember {
		ttl = s.rememberTTL
	}
	key := sessionKeyPrefix + id
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// GetUserID resolves a session ID to the user it belongs to.
func (s *Store) GetUserID(ctx context.Context, id string) (int64, bool) {
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseInt(v, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// Delete removes a session by ID. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// CookieMaxAge returns the max-age in seconds for the session cookie:
// 0 (a browser-session cookie) normally, the remember TTL when remembered.
func (s *Store) CookieMaxAge(remember bool) int {
	if !remember {
		return 0
	}
	return int(s.rememberTTL / time.Second)
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
