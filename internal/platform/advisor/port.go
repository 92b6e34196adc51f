package advisor

import (
	"context"
	"time"

	"github.com/kislikjeka/finsight/internal/analytics"
	"github.com/kislikjeka/finsight/internal/platform/session"
)

// Model streams a reply to a validated conversation. emit is called once per
// text chunk; an error from emit stops the stream and is returned.
type Model interface {
	Stream(ctx context.Context, systemInstruction string, messages []Message, emit func(chunk string) error) error
}

// SnapshotSource provides the dashboard figures the advisor is grounded on
type SnapshotSource interface {
	Snapshot(ctx context.Context, sess session.Session, now time.Time) (analytics.Snapshot, error)
}
