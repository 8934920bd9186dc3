package domain

import "time"

// Actions recorded by the auth code paths.
const (
	ActionLogin           = "login"
	ActionLoginFailure    = "login_failure"
	ActionRefresh         = "refresh"
	ActionLogout          = "logout"
	ActionSessionEvicted  = "session_evicted"
	ActionSessionsRevoked = "sessions_revoked"
	ActionPasswordChanged = "password_changed"
	ActionPasswordReset   = "password_reset"
	ActionEmailVerified   = "email_verified"
	ActionHijackFlagged   = "hijack_flagged"
)

// AuditLog represents one auth event. UserID may be empty when the event has
// no resolved account (e.g. a failed login for an unknown email).
type AuditLog struct {
	ID        string
	UserID    string
	SessionID string
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
