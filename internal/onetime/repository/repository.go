package repository

import (
	"context"
	"time"

	"inkwell-cms/backend/internal/onetime/domain"
)

// Repository defines persistence for one-time tokens.
type Repository interface {
	Create(ctx context.Context, t *domain.Token) error
	GetByHashAndPurpose(ctx context.Context, hash string, purpose domain.Purpose) (*domain.Token, error)
	// Redeem marks the token used, conditionally: the update applies only while
	// used_at is still null and the token is unexpired, so two concurrent
	// redemptions cannot both succeed. Returns whether this call won.
	Redeem(ctx context.Context, id string, at time.Time) (bool, error)
	// InvalidateByUserAndPurpose voids the user's outstanding tokens for the
	// purpose, so issuing a new token retires any earlier one.
	InvalidateByUserAndPurpose(ctx context.Context, userID string, purpose domain.Purpose, at time.Time) error
	// DeleteExpiredBefore removes tokens whose expiry is older than cutoff.
	// Owned by the sweep job.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
