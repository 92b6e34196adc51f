package profile

import (
	"context"
	"fmt"
)

// Service reads and edits owner profiles
type Service struct {
	repo Repository
}

// NewService creates a new profile service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the owner's profile with achievements attached
func (s *Service) Get(ctx context.Context, ownerKey string) (*Profile, error) {
	p, err := s.repo.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	return s.withAchievements(ctx, p)
}

// Update validates and applies a partial update
func (s *Service) Update(ctx context.Context, ownerKey string, patch Patch) (*Profile, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.Upsert(ctx, ownerKey, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.withAchievements(ctx, p)
}

func (s *Service) withAchievements(ctx context.Context, p *Profile) (*Profile, error) {
	achievements, err := s.repo.ListAchievements(ctx, p.OwnerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	if achievements == nil {
		achievements = []Achievement{}
	}
	p.Achievements = achievements
	return p, nil
}
