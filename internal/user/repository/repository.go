package repository

import (
	"context"
	"time"

	"inkwell-cms/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdatePassword replaces the stored password hash and bumps updated_at.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetActive(ctx context.Context, userID string, active bool) error
	// SetEmailVerified records the time the user's email was verified. No-op if already verified.
	SetEmailVerified(ctx context.Context, userID string, at time.Time) error
}
