package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/finsight/internal/platform/profile"
)

// ProfileRepository implements profile.Repository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `user_name, full_name, email, phone, bio, avatar_url, currency, locale, updated_at`

// Get retrieves a profile by owner key
func (r *ProfileRepository) Get(ctx context.Context, ownerKey string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_name = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, ownerKey))
}

// Upsert applies the patch. NULL parameters keep the stored value, so only
// the fields set in the patch change.
func (r *ProfileRepository) Upsert(ctx context.Context, ownerKey string, patch profile.Patch) (*profile.Profile, error) {
	query := `
		INSERT INTO profiles (user_name, full_name, email, phone, bio, avatar_url, currency, locale, updated_at)
		VALUES (
			$1,
			COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
			COALESCE($7, 'USD'), COALESCE($8, 'en'),
			NOW()
		)
		ON CONFLICT (user_name) DO UPDATE SET
			full_name  = COALESCE($2, profiles.full_name),
			email      = COALESCE($3, profiles.email),
			phone      = COALESCE($4, profiles.phone),
			bio        = COALESCE($5, profiles.bio),
			avatar_url = COALESCE($6, profiles.avatar_url),
			currency   = COALESCE($7, profiles.currency),
			locale     = COALESCE($8, profiles.locale),
			updated_at = NOW()
		RETURNING ` + profileColumns

	row := r.pool.QueryRow(ctx, query,
		ownerKey,
		patch.FullName,
		patch.Email,
		patch.Phone,
		patch.Bio,
		patch.AvatarURL,
		patch.Currency,
		patch.Locale,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// ListAchievements returns the owner's achievements, newest first
func (r *ProfileRepository) ListAchievements(ctx context.Context, ownerKey string) ([]profile.Achievement, error) {
	query := `
		SELECT code, title, description, earned_at
		FROM achievements
		WHERE user_name = $1
		ORDER BY earned_at DESC, code ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]profile.Achievement, 0)
	for rows.Next() {
		var a profile.Achievement
		if err := rows.Scan(&a.Code, &a.Title, &a.Description, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	return achievements, nil
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.OwnerKey,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Bio,
		&p.AvatarURL,
		&p.Currency,
		&p.Locale,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
