package profile

import "context"

// Repository defines profile persistence
type Repository interface {
	// Get returns ErrProfileNotFound when the owner has no profile row
	Get(ctx context.Context, ownerKey string) (*Profile, error)

	// Upsert applies the patch, creating the row if needed, and returns the result
	Upsert(ctx context.Context, ownerKey string, patch Patch) (*Profile, error)

	// ListAchievements returns earned achievements, newest first
	ListAchievements(ctx context.Context, ownerKey string) ([]Achievement, error)
}
