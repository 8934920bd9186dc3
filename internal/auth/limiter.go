package auth

import (
	"context"

	auditdomain "inkwell-cms/backend/internal/audit/domain"
)

// enforceSessionLimit revokes the user's oldest active sessions until one more
// session can be created without exceeding maxSessions. Tie-break on creation
// order comes from the repository's stable ordering, so eviction is
// deterministic under concurrent logins.
func (s *Service) enforceSessionLimit(ctx context.Context, userID string) error {
	active, err := s.sessions.ListActiveByUser(ctx, userID, s.now())
	if err != nil {
		return err
	}
	excess := len(active) - (s.maxSessions - 1)
	for i := 0; i < excess; i++ {
		if err := s.sessions.Revoke(ctx, active[i].ID); err != nil {
			return err
		}
		s.metrics.SessionEvicted(ctx)
		s.record(ctx, userID, active[i].ID, auditdomain.ActionSessionEvicted, "", "")
		s.log.Info(ctx, "session evicted by concurrency cap",
			"user_id", userID, "session_id", active[i].ID, "max_sessions", s.maxSessions)
	}
	return nil
}
