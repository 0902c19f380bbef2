package service

import (
	"context"
	"time"

	"userboard/internal/repository"
)

// JanitorService sweeps expired session rows in the background. Lookups
// already treat expired sessions as absent; the sweep only keeps the table
// from growing without bound.
type JanitorService struct {
	sessions repository.Sessions
}

func NewJanitorService(sessions repository.Sessions) *JanitorService {
	return &JanitorService{sessions: sessions}
}

var _ Janitor = (*JanitorService)(nil)

// Run ticks at the given interval until ctx is canceled.
func (s *JanitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			_, _ = s.sessions.DeleteExpired(ctx, now)
		}
	}
}
