package domain

import "time"

// Session represents one active login: a token pair bound to a user, IP, and device context.
type Session struct {
	ID               string
	UserID           string
	AccessTokenHash  string // SHA-256 hash of the current access token; raw tokens are never stored
	RefreshTokenHash string // SHA-256 hash of the current refresh token
	IPAddress        string
	UserAgent        string
	ExpiresAt        time.Time
	RevokedAt        *time.Time // nil when not revoked
	LastSeenAt       *time.Time
	CreatedAt        time.Time
}

// Active reports whether the session may authorize requests at the given time.
// A revoked or expired session must never authorize a request.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
