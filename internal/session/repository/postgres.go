package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inkwell-cms/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at, revoked_at, last_seen_at, created_at`

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, access_token_hash, refresh_token_hash, ip_address, user_agent, expires_at, revoked_at, last_seen_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.UserID, s.AccessTokenHash, s.RefreshTokenHash, s.IPAddress, s.UserAgent,
		s.ExpiresAt, timeToNullTime(s.RevokedAt), timeToNullTime(s.LastSeenAt), s.CreatedAt,
	)
	return err
}

// GetByAccessTokenHash returns the session holding the given access-token hash, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByAccessTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE access_token_hash = $1`, hash)
	return scanSession(row)
}

// GetByRefreshTokenHash returns the session holding the given refresh-token hash, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = $1`, hash)
	return scanSession(row)
}

// ListActiveByUser returns the user's non-revoked, unexpired sessions, oldest first.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
		 ORDER BY created_at ASC, id ASC`,
		userID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RotateTokens replaces the token pair only while the stored refresh hash still
// matches currentRefreshHash and the session is not revoked. Returns false when
// a concurrent refresh already rotated the pair.
func (r *PostgresRepository) RotateTokens(ctx context.Context, sessionID, currentRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time, ip, userAgent string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		 SET access_token_hash = $3, refresh_token_hash = $4, expires_at = $5, ip_address = $6, user_agent = $7, last_seen_at = now()
		 WHERE id = $1 AND refresh_token_hash = $2 AND revoked_at IS NULL`,
		sessionID, currentRefreshHash, newAccessHash, newRefreshHash, expiresAt, ip, userAgent,
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

// Revoke marks the session with the given id as revoked. Returns an error if the update fails.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	return err
}

// RevokeAllByUser revokes every active session for the user except exceptID (empty revokes all).
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID, exceptID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = now()
		 WHERE user_id = $1 AND revoked_at IS NULL AND ($2 = '' OR id <> $2)`,
		userID, exceptID,
	)
	return err
}

// UpdateLastSeen sets the session's last-seen timestamp for the given id. Returns an error if the update fails.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = $2 WHERE id = $1`, id, at)
	return err
}

// DeleteExpiredBefore removes sessions whose expiry is older than cutoff and returns the count.
func (r *PostgresRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var revokedAt, lastSeenAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.AccessTokenHash, &s.RefreshTokenHash, &s.IPAddress,
		&s.UserAgent, &s.ExpiresAt, &revokedAt, &lastSeenAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.RevokedAt = nullTimeToPtr(revokedAt)
	s.LastSeenAt = nullTimeToPtr(lastSeenAt)
	return &s, nil
}

func scanSessionRows(rows *sql.Rows) (*domain.Session, error) {
	var s domain.Session
	var revokedAt, lastSeenAt sql.NullTime
	err := rows.Scan(&s.ID, &s.UserID, &s.AccessTokenHash, &s.RefreshTokenHash, &s.IPAddress,
		&s.UserAgent, &s.ExpiresAt, &revokedAt, &lastSeenAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.RevokedAt = nullTimeToPtr(revokedAt)
	s.LastSeenAt = nullTimeToPtr(lastSeenAt)
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
