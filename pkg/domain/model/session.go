package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// DefaultCloseSessionTTL bounds how long a close confirmation stays valid.
// The upstream interaction token itself expires after minutes; the session
// only guards the confirmation step, never the pipeline.
const DefaultCloseSessionTTL = 5 * time.Minute

// CloseSession is the explicit confirmation object for a close request. It
// replaces ad-hoc timers: the session carries a cancellation token scoped to
// the confirmation window. Once the pipeline starts there is no mid-pipeline
// cancellation; an expired token only makes the result undeliverable.
type CloseSession struct {
	ID          string
	GuildID     types.GuildID
	CaseID      types.CaseID
	RequestedBy types.UserID
	StartedAt   time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCloseSession creates a confirmation session with the given TTL. A zero
// ttl falls back to DefaultCloseSessionTTL.
func NewCloseSession(ctx context.Context, guildID types.GuildID, caseID types.CaseID, requestedBy types.UserID, ttl time.Duration) *CloseSession {
	if ttl <= 0 {
		ttl = DefaultCloseSessionTTL
	}
	sessCtx, cancel := context.WithTimeout(ctx, ttl)
	return &CloseSession{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		CaseID:      caseID,
		RequestedBy: requestedBy,
		StartedAt:   time.Now().UTC(),
		ctx:         sessCtx,
		cancel:      cancel,
	}
}

// Context returns the confirmation window context.
func (s *CloseSession) Context() context.Context {
	return s.ctx
}

// Expired reports whether the confirmation window has elapsed.
func (s *CloseSession) Expired() bool {
	return s.ctx.Err() != nil
}

// Cancel releases the session. Safe to call multiple times.
func (s *CloseSession) Cancel() {
	s.cancel()
}
