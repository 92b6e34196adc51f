package advisor

import (
	"context"
	"time"

	"github.com/kislikjeka/finsight/internal/analytics"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// Service runs advisor conversations
type Service struct {
	model     Model
	snapshots SnapshotSource
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new advisor service. A nil model disables the advisor.
func NewService(model Model, snapshots SnapshotSource, log *logger.Logger) *Service {
	return &Service{
		model:     model,
		snapshots: snapshots,
		logger:    log.WithComponent("advisor"),
		now:       time.Now,
	}
}

// Enabled reports whether a model is configured
func (s *Service) Enabled() bool {
	return s.model != nil
}

// Stream validates the conversation and streams the model's reply through
// emit. A snapshot failure downgrades the grounding but never blocks chat.
func (s *Service) Stream(ctx context.Context, sess session.Session, messages []Message, emit func(chunk string) error) error {
	if !s.Enabled() {
		return ErrAdvisorDisabled
	}

	conversation, err := ValidateConversation(messages)
	if err != nil {
		return err
	}

	now := s.now()
	var snapshot *analytics.Snapshot
	if s.snapshots != nil {
		snap, err := s.snapshots.Snapshot(ctx, sess, now)
		if err != nil {
			s.logger.WithContext(ctx).Warn("chat without dashboard grounding", "owner_key", sess.OwnerKey, "error", err)
		} else {
			snapshot = &snap
		}
	}

	start := time.Now()
	err = s.model.Stream(ctx, BuildSystemInstruction(snapshot, now), conversation, emit)
	log := s.logger.WithContext(ctx).WithDuration(time.Since(start))
	if err != nil {
		log.Error("advisor stream failed", "messages", len(conversation), "error", err)
		return err
	}
	log.Info("advisor reply streamed", "messages", len(conversation))
	return nil
}
