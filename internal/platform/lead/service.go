package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/finsight/pkg/logger"
)

// Service accepts lead submissions
type Service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new lead service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithComponent("lead"),
		now:    time.Now,
	}
}

// Submit validates and stores a lead. ID and CreatedAt are assigned here.
func (s *Service) Submit(ctx context.Context, in Lead) (*Lead, error) {
	l := in
	l.Normalize()
	if err := l.Validate(); err != nil {
		return nil, err
	}

	l.ID = uuid.New()
	l.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, &l); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	s.logger.Info("lead submitted", "lead_id", l.ID.String(), "source", l.Source)
	return &l, nil
}
