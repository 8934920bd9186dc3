package repository

import (
	"context"
	"time"

	"inkwell-cms/backend/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByAccessTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	// ListActiveByUser returns the user's non-revoked, unexpired sessions ordered
	// by created_at ascending, id ascending (oldest first, deterministic ties).
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error)
	// RotateTokens conditionally replaces the session's token pair: the update
	// applies only while the stored refresh hash still equals currentRefreshHash,
	// so a losing concurrent refresh observes rotated=false instead of clobbering
	// the winner's tokens.
	RotateTokens(ctx context.Context, sessionID, currentRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time, ip, userAgent string) (rotated bool, err error)
	Revoke(ctx context.Context, id string) error
	// RevokeAllByUser revokes every active session for the user; exceptID may be
	// empty to revoke all of them.
	RevokeAllByUser(ctx context.Context, userID, exceptID string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
	// DeleteExpiredBefore removes sessions whose expiry is older than cutoff.
	// Owned by the sweep job, never by request paths.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
