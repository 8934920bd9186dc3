package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inkwell-cms/backend/internal/onetime/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a one-time token repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tokenColumns = `id, user_id, token_hash, purpose, expires_at, used_at, created_at`

// Create persists the token to the database. The token must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO one_time_tokens (id, user_id, token_hash, purpose, expires_at, used_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.TokenHash, string(t.Purpose), t.ExpiresAt, timeToNullTime(t.UsedAt), t.CreatedAt,
	)
	return err
}

// GetByHashAndPurpose returns the token with the given digest and purpose, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByHashAndPurpose(ctx context.Context, hash string, purpose domain.Purpose) (*domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM one_time_tokens WHERE token_hash = $1 AND purpose = $2`,
		hash, string(purpose),
	)
	var t domain.Token
	var purposeStr string
	var usedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &purposeStr, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Purpose = domain.Purpose(purposeStr)
	if usedAt.Valid {
		at := usedAt.Time
		t.UsedAt = &at
	}
	return &t, nil
}

// Redeem marks the token used if it is still unused and unexpired. Returns
// false when another redemption already won or the token lapsed.
func (r *PostgresRepository) Redeem(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE one_time_tokens SET used_at = $2
		 WHERE id = $1 AND used_at IS NULL AND expires_at > $2`,
		id, at,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InvalidateByUserAndPurpose marks the user's outstanding unused tokens for the
// purpose as used, retiring them.
func (r *PostgresRepository) InvalidateByUserAndPurpose(ctx context.Context, userID string, purpose domain.Purpose, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE one_time_tokens SET used_at = $3
		 WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL`,
		userID, string(purpose), at,
	)
	return err
}

// DeleteExpiredBefore removes tokens that expired or were redeemed before
// cutoff and returns the number deleted.
func (r *PostgresRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM one_time_tokens WHERE expires_at < $1 OR (used_at IS NOT NULL AND used_at < $1)`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
