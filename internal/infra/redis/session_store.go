package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// SessionKeyPrefix is the prefix for live-session keys
const SessionKeyPrefix = "session:"

// SessionStore is a Redis-backed session.Store. Each live session is one key
// whose TTL matches the token lifetime.
type SessionStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(client *redis.Client, log *logger.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		logger: log.WithComponent("session_store"),
	}
}

// storedSession is the JSON value kept under a session key
type storedSession struct {
	UserID    string    `json:"user_id"`
	OwnerKey  string    `json:"owner_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(tokenID uuid.UUID) string {
	return SessionKeyPrefix + tokenID.String()
}

// Save stores a live session with the given TTL
func (s *SessionStore) Save(ctx context.Context, sess session.Session, ttl time.Duration) error {
	data, err := json.Marshal(storedSession{
		UserID:    sess.UserID.String(),
		OwnerKey:  sess.OwnerKey,
		ExpiresAt: sess.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.TokenID), data, ttl).Err(); err != nil {
		s.logger.Error("session store error", "operation", "set", "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Lookup returns the stored session. A missing key means the session was
// revoked or has expired.
func (s *SessionStore) Lookup(ctx context.Context, tokenID uuid.UUID) (session.Session, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, false, nil
	}
	if err != nil {
		s.logger.Error("session store error", "operation", "get", "error", err)
		return session.Session{}, false, fmt.Errorf("failed to get session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return session.Session{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	userID, err := uuid.Parse(stored.UserID)
	if err != nil {
		return session.Session{}, false, fmt.Errorf("failed to parse session user id: %w", err)
	}

	return session.Session{
		UserID:    userID,
		OwnerKey:  stored.OwnerKey,
		TokenID:   tokenID,
		ExpiresAt: stored.ExpiresAt,
	}, true, nil
}

// Delete removes the session key
func (s *SessionStore) Delete(ctx context.Context, tokenID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		s.logger.Error("session store error", "operation", "del", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
