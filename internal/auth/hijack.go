package auth

import (
	"context"

	auditdomain "inkwell-cms/backend/internal/audit/domain"
	"inkwell-cms/backend/internal/session/domain"
)

// checkIPPolicy compares the request IP against the IP the session was created
// from. In strict mode a mismatch revokes the session and rejects the request;
// in permissive mode it is logged and counted but the request proceeds, which
// tolerates mobile clients hopping between networks. A session with no
// recorded IP never triggers the policy.
func (s *Service) checkIPPolicy(ctx context.Context, sess *domain.Session, rc RequestContext) error {
	if sess.IPAddress == "" || rc.IP == "" || sess.IPAddress == rc.IP {
		return nil
	}
	if !s.strictIP {
		s.metrics.HijackFlagged(ctx, "permissive")
		s.record(ctx, sess.UserID, sess.ID, auditdomain.ActionHijackFlagged, rc.IP, "permissive")
		s.log.Warn(ctx, "session IP changed",
			"session_id", sess.ID, "user_id", sess.UserID,
			"session_ip", sess.IPAddress, "request_ip", rc.IP)
		return nil
	}
	s.metrics.HijackFlagged(ctx, "strict")
	s.record(ctx, sess.UserID, sess.ID, auditdomain.ActionHijackFlagged, rc.IP, "strict")
	s.log.Warn(ctx, "session IP changed, revoking session",
		"session_id", sess.ID, "user_id", sess.UserID,
		"session_ip", sess.IPAddress, "request_ip", rc.IP)
	if err := s.sessions.Revoke(ctx, sess.ID); err != nil {
		s.log.Error(ctx, "hijack revoke failed", "session_id", sess.ID, "error", err)
		return ErrInternal
	}
	s.metrics.Revocation(ctx)
	return ErrForbidden
}
