package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence operations
type Repository interface {
	// Create stores a new user and its initial profile atomically
	Create(ctx context.Context, user *User, profile InitialProfile) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Exists checks if a user with the given username exists
	Exists(ctx context.Context, username string) (bool, error)

	// UpdateLastLogin records a successful sign-in
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
