// Package session issues, resolves and revokes sign-in sessions. A session is
// a signed token paired with a live-session record in a Store, so signing out
// invalidates a token before it expires.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session identifies the signed-in user for one request
type Session struct {
	UserID    uuid.UUID
	OwnerKey  string
	TokenID   uuid.UUID
	ExpiresAt time.Time
}

// Store keeps the set of live sessions
type Store interface {
	// Save records a live session that expires after ttl
	Save(ctx context.Context, s Session, ttl time.Duration) error

	// Lookup returns the recorded session and whether it is still live
	Lookup(ctx context.Context, tokenID uuid.UUID) (Session, bool, error)

	// Delete ends a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, tokenID uuid.UUID) error
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session placed by WithSession
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
