// Package service implements the one-time token flows: password reset and
// email verification. Raw tokens travel only inside outbound email; storage
// holds SHA-256 digests, and redemption is single-use under concurrency.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"inkwell-cms/backend/internal/audit"
	auditdomain "inkwell-cms/backend/internal/audit/domain"
	"inkwell-cms/backend/internal/logging"
	"inkwell-cms/backend/internal/notifier"
	"inkwell-cms/backend/internal/onetime/domain"
	"inkwell-cms/backend/internal/security"
	userdomain "inkwell-cms/backend/internal/user/domain"
)

var (
	// ErrInvalidToken covers unknown, expired, already-used, and wrong-purpose
	// tokens alike; callers cannot tell which.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInternal is returned for repository failures.
	ErrInternal = errors.New("internal error")
)

// TokenRepository is the persistence the flows need.
type TokenRepository interface {
	Create(ctx context.Context, t *domain.Token) error
	GetByHashAndPurpose(ctx context.Context, hash string, purpose domain.Purpose) (*domain.Token, error)
	Redeem(ctx context.Context, id string, at time.Time) (bool, error)
	InvalidateByUserAndPurpose(ctx context.Context, userID string, purpose domain.Purpose, at time.Time) error
}

// UserRepository is the slice of user persistence the flows need.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID string, at time.Time) error
}

// SessionRevoker revokes a user's sessions after a successful password reset.
type SessionRevoker interface {
	RevokeAllByUser(ctx context.Context, userID, exceptID string) error
}

// Service runs the password-reset and email-verification flows.
type Service struct {
	tokens   TokenRepository
	users    UserRepository
	sessions SessionRevoker
	hasher   *security.Hasher
	mail     notifier.Notifier
	log      logging.Logger
	audit    audit.Recorder

	resetTTL  time.Duration
	verifyTTL time.Duration

	now func() time.Time
}

func NewService(
	tokens TokenRepository,
	users UserRepository,
	sessions SessionRevoker,
	hasher *security.Hasher,
	mail notifier.Notifier,
	resetTTL, verifyTTL time.Duration,
	log logging.Logger,
) *Service {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	if verifyTTL <= 0 {
		verifyTTL = 24 * time.Hour
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		tokens:    tokens,
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		mail:      mail,
		log:       log,
		resetTTL:  resetTTL,
		verifyTTL: verifyTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithAudit attaches a durable audit trail. Optional; recording is best-effort.
func (s *Service) WithAudit(rec audit.Recorder) *Service {
	s.audit = rec
	return s
}

func (s *Service) record(ctx context.Context, userID, action string) {
	if s.audit != nil {
		s.audit.Record(ctx, userID, "", action, "", "")
	}
}

// RequestPasswordReset issues a reset token for the account behind email and
// mails it. An unknown email is a silent success: the response never reveals
// whether an account exists. Issuing retires any earlier outstanding reset
// token for the user.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error(ctx, "password reset: user lookup failed", "error", err)
		return ErrInternal
	}
	if user == nil || !user.IsActive {
		s.log.Info(ctx, "password reset requested for unknown or inactive account")
		return nil
	}
	raw, err := s.issue(ctx, user.ID, domain.PurposePasswordReset, s.resetTTL)
	if err != nil {
		s.log.Error(ctx, "password reset: issue failed", "user_id", user.ID, "error", err)
		return ErrInternal
	}
	// Delivery failures are logged, never surfaced: the caller's response must
	// look the same whether or not mail went out.
	if err := s.mail.SendPasswordReset(ctx, user.Email, raw); err != nil {
		s.log.Error(ctx, "password reset: send failed", "user_id", user.ID, "error", err)
	}
	s.log.Info(ctx, "password reset token issued", "user_id", user.ID)
	return nil
}

// ConfirmPasswordReset redeems the reset token, stores the new password hash,
// and revokes every session of the user.
func (s *Service) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	tok, err := s.redeem(ctx, rawToken, domain.PurposePasswordReset)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		s.log.Error(ctx, "password reset: hash failed", "user_id", tok.UserID, "error", err)
		return ErrInternal
	}
	if err := s.users.UpdatePassword(ctx, tok.UserID, hash); err != nil {
		s.log.Error(ctx, "password reset: update failed", "user_id", tok.UserID, "error", err)
		return ErrInternal
	}
	if err := s.sessions.RevokeAllByUser(ctx, tok.UserID, ""); err != nil {
		s.log.Error(ctx, "password reset: session revoke failed", "user_id", tok.UserID, "error", err)
		return ErrInternal
	}
	s.record(ctx, tok.UserID, auditdomain.ActionPasswordReset)
	s.log.Info(ctx, "password reset completed", "user_id", tok.UserID)
	return nil
}

// SendEmailVerification issues a verification token for the user and mails it.
// A user whose email is already verified gets a silent success.
func (s *Service) SendEmailVerification(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "email verification: user lookup failed", "user_id", userID, "error", err)
		return ErrInternal
	}
	if user == nil {
		return ErrInvalidToken
	}
	if user.EmailVerifiedAt != nil {
		return nil
	}
	raw, err := s.issue(ctx, user.ID, domain.PurposeEmailVerify, s.verifyTTL)
	if err != nil {
		s.log.Error(ctx, "email verification: issue failed", "user_id", user.ID, "error", err)
		return ErrInternal
	}
	if err := s.mail.SendVerification(ctx, user.Email, raw); err != nil {
		s.log.Error(ctx, "email verification: send failed", "user_id", user.ID, "error", err)
	}
	s.log.Info(ctx, "verification token issued", "user_id", user.ID)
	return nil
}

// ConfirmEmailVerification redeems the verification token and marks the user's
// email verified.
func (s *Service) ConfirmEmailVerification(ctx context.Context, rawToken string) error {
	tok, err := s.redeem(ctx, rawToken, domain.PurposeEmailVerify)
	if err != nil {
		return err
	}
	if err := s.users.SetEmailVerified(ctx, tok.UserID, s.now()); err != nil {
		s.log.Error(ctx, "email verification: update failed", "user_id", tok.UserID, "error", err)
		return ErrInternal
	}
	s.record(ctx, tok.UserID, auditdomain.ActionEmailVerified)
	s.log.Info(ctx, "email verified", "user_id", tok.UserID)
	return nil
}

// issue creates and stores a fresh token, retiring any outstanding one for the
// same user and purpose, and returns the raw secret.
func (s *Service) issue(ctx context.Context, userID string, purpose domain.Purpose, ttl time.Duration) (string, error) {
	now := s.now()
	if err := s.tokens.InvalidateByUserAndPurpose(ctx, userID, purpose, now); err != nil {
		return "", err
	}
	raw, err := security.NewRawToken()
	if err != nil {
		return "", err
	}
	tok := &domain.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: security.HashToken(raw),
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return "", err
	}
	return raw, nil
}

// redeem looks the token up by digest and marks it used, exactly once.
func (s *Service) redeem(ctx context.Context, rawToken string, purpose domain.Purpose) (*domain.Token, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}
	tok, err := s.tokens.GetByHashAndPurpose(ctx, security.HashToken(rawToken), purpose)
	if err != nil {
		s.log.Error(ctx, "token lookup failed", "error", err)
		return nil, ErrInternal
	}
	if tok == nil || !tok.Redeemable(s.now()) {
		return nil, ErrInvalidToken
	}
	won, err := s.tokens.Redeem(ctx, tok.ID, s.now())
	if err != nil {
		s.log.Error(ctx, "token redeem failed", "token_id", tok.ID, "error", err)
		return nil, ErrInternal
	}
	if !won {
		// Lost the race against a concurrent redemption.
		return nil, ErrInvalidToken
	}
	return tok, nil
}
