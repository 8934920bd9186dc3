// Package auth implements the session manager: login, token refresh,
// authentication of requests, logout, and password changes. It composes the
// token provider, password hasher, user and session repositories, and the
// revocation cache into the full credential lifecycle.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell-cms/backend/internal/audit"
	auditdomain "inkwell-cms/backend/internal/audit/domain"
	"inkwell-cms/backend/internal/logging"
	"inkwell-cms/backend/internal/revocation"
	"inkwell-cms/backend/internal/security"
	sessdomain "inkwell-cms/backend/internal/session/domain"
	userdomain "inkwell-cms/backend/internal/user/domain"
)

// dummyHash is a fixed bcrypt digest. Login verifies against it when the email
// is unknown so the failure path costs a bcrypt comparison either way and does
// not reveal which field was bad. The result is discarded.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository is the slice of user persistence the session manager needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// SessionRepository is the slice of session persistence the session manager needs.
type SessionRepository interface {
	Create(ctx context.Context, s *sessdomain.Session) error
	GetByAccessTokenHash(ctx context.Context, hash string) (*sessdomain.Session, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*sessdomain.Session, error)
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*sessdomain.Session, error)
	RotateTokens(ctx context.Context, sessionID, currentRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time, ip, userAgent string) (bool, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID, exceptID string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// RequestContext carries the client attributes of the request being served.
type RequestContext struct {
	IP        string
	UserAgent string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	SessionID        string
	User             *userdomain.User
}

// Identity is the result of a successful authentication.
type Identity struct {
	User    *userdomain.User
	Session *sessdomain.Session
}

// Service is the session manager.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	cache    revocation.Cache
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	log      logging.Logger
	metrics  *Metrics
	audit    audit.Recorder

	maxSessions  int
	strictIP     bool
	cacheTimeout time.Duration

	now func() time.Time
}

// NewService wires the session manager. maxSessions caps concurrent active
// sessions per user; strictIP selects the hijack policy; cacheTimeout bounds
// every call to the revocation cache so a slow cache cannot stall requests.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	cache revocation.Cache,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	maxSessions int,
	strictIP bool,
	cacheTimeout time.Duration,
	log logging.Logger,
	metrics *Metrics,
) *Service {
	if maxSessions < 1 {
		maxSessions = 1
	}
	if cacheTimeout <= 0 {
		cacheTimeout = 2 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		users:        users,
		sessions:     sessions,
		cache:        cache,
		hasher:       hasher,
		tokens:       tokens,
		log:          log,
		metrics:      metrics,
		maxSessions:  maxSessions,
		strictIP:     strictIP,
		cacheTimeout: cacheTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithAudit attaches a durable audit trail for auth events. Optional;
// recording is best-effort and never fails the operation.
func (s *Service) WithAudit(rec audit.Recorder) *Service {
	s.audit = rec
	return s
}

func (s *Service) record(ctx context.Context, userID, sessionID, action, ip, metadata string) {
	if s.audit != nil {
		s.audit.Record(ctx, userID, sessionID, action, ip, metadata)
	}
}

// Login verifies the credentials, enforces the concurrent-session cap, and
// issues a fresh token pair backed by a new session record. All credential
// failures return ErrInvalidCredentials without distinguishing unknown email
// from wrong password.
func (s *Service) Login(ctx context.Context, email, password string, rc RequestContext) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error(ctx, "login: user lookup failed", "error", err)
		return nil, ErrInternal
	}
	if user == nil {
		s.hasher.Verify([]byte(password), dummyHash)
		s.metrics.LoginFailure(ctx)
		s.record(ctx, "", "", auditdomain.ActionLoginFailure, rc.IP, "")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify([]byte(password), user.PasswordHash) {
		s.metrics.LoginFailure(ctx)
		s.record(ctx, user.ID, "", auditdomain.ActionLoginFailure, rc.IP, "")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.metrics.LoginFailure(ctx)
		s.record(ctx, user.ID, "", auditdomain.ActionLoginFailure, rc.IP, "inactive")
		return nil, ErrAccountInactive
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Error(ctx, "login: session limit enforcement failed", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}

	pair, err := s.createSession(ctx, user, rc)
	if err != nil {
		s.log.Error(ctx, "login: session create failed", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}
	s.metrics.Login(ctx)
	s.record(ctx, user.ID, pair.SessionID, auditdomain.ActionLogin, rc.IP, "")
	s.log.Info(ctx, "login", "user_id", user.ID, "session_id", pair.SessionID, "ip", rc.IP)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair, rotating the
// session's stored hashes in place. A refresh token that has already been
// rotated away is rejected, so a stolen-and-replayed refresh token fails the
// moment the legitimate client has used it.
func (s *Service) Refresh(ctx context.Context, refreshToken string, rc RequestContext) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrNoToken
	}
	info, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	sess, err := s.sessions.GetByRefreshTokenHash(ctx, security.HashToken(refreshToken))
	if err != nil {
		s.log.Error(ctx, "refresh: session lookup failed", "error", err)
		return nil, ErrInternal
	}
	if sess == nil || !sess.Active(s.now()) {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, info.UserID)
	if err != nil {
		s.log.Error(ctx, "refresh: user lookup failed", "user_id", info.UserID, "error", err)
		return nil, ErrInternal
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	access, _, accessExp, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		s.log.Error(ctx, "refresh: issue access failed", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}
	refresh, _, refreshExp, err := s.tokens.IssueRefresh(user.ID, string(user.Role))
	if err != nil {
		s.log.Error(ctx, "refresh: issue refresh failed", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}
	rotated, err := s.sessions.RotateTokens(ctx, sess.ID,
		security.HashToken(refreshToken),
		security.HashToken(access), security.HashToken(refresh),
		refreshExp, rc.IP, rc.UserAgent)
	if err != nil {
		s.log.Error(ctx, "refresh: rotate failed", "session_id", sess.ID, "error", err)
		return nil, ErrInternal
	}
	if !rotated {
		// Another request rotated this session first; this token is stale.
		return nil, ErrInvalidToken
	}
	s.metrics.Refresh(ctx)
	s.record(ctx, user.ID, sess.ID, auditdomain.ActionRefresh, rc.IP, "")
	s.log.Info(ctx, "token refreshed", "user_id", user.ID, "session_id", sess.ID)
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		SessionID:        sess.ID,
		User:             user,
	}, nil
}

// Authenticate validates an access token end to end: signature and expiry,
// revocation blacklist, session state, account state, and the IP-change
// policy. The blacklist read fails open; repository reads fail closed.
func (s *Service) Authenticate(ctx context.Context, accessToken string, rc RequestContext) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrNoToken
	}
	info, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if s.isBlacklisted(ctx, accessToken) {
		return nil, ErrRevoked
	}

	now := s.now()
	sess, err := s.sessions.GetByAccessTokenHash(ctx, security.HashToken(accessToken))
	if err != nil {
		s.log.Error(ctx, "authenticate: session lookup failed", "error", err)
		return nil, ErrInternal
	}
	if sess == nil {
		return nil, ErrInvalidToken
	}
	if sess.RevokedAt != nil {
		return nil, ErrRevoked
	}
	if !sess.ExpiresAt.After(now) {
		return nil, ErrExpired
	}
	user, err := s.users.GetByID(ctx, info.UserID)
	if err != nil {
		s.log.Error(ctx, "authenticate: user lookup failed", "user_id", info.UserID, "error", err)
		return nil, ErrInternal
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.checkIPPolicy(ctx, sess, rc); err != nil {
		return nil, err
	}

	// Best effort; a failed touch must not fail the request.
	if err := s.sessions.UpdateLastSeen(ctx, sess.ID, now); err != nil {
		s.log.Warn(ctx, "authenticate: last-seen touch failed", "session_id", sess.ID, "error", err)
	}

	return &Identity{User: user, Session: sess}, nil
}

// Logout revokes the session behind the access token and blacklists the token
// for its remaining lifetime. An expired token still revokes its session (and
// with it the paired refresh token) but needs no blacklist entry.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNoToken
	}
	info, err := s.tokens.VerifyAccess(accessToken)
	if err != nil && err != security.ErrExpiredToken {
		return ErrInvalidToken
	}
	sess, err := s.sessions.GetByAccessTokenHash(ctx, security.HashToken(accessToken))
	if err != nil {
		s.log.Error(ctx, "logout: session lookup failed", "error", err)
		return ErrInternal
	}
	if sess == nil {
		return ErrInvalidToken
	}
	if err := s.sessions.Revoke(ctx, sess.ID); err != nil {
		s.log.Error(ctx, "logout: revoke failed", "session_id", sess.ID, "error", err)
		return ErrInternal
	}
	if info != nil {
		s.blacklist(ctx, accessToken, time.Until(info.ExpiresAt))
	}
	s.metrics.Revocation(ctx)
	s.record(ctx, sess.UserID, sess.ID, auditdomain.ActionLogout, "", "")
	s.log.Info(ctx, "logout", "session_id", sess.ID, "user_id", sess.UserID)
	return nil
}

// ChangePassword verifies the current password, stores a new hash, and revokes
// every other session so stolen tokens die with the old password. The session
// behind currentAccessToken stays alive.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, currentAccessToken string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "change password: user lookup failed", "user_id", userID, "error", err)
		return ErrInternal
	}
	if user == nil || !s.hasher.Verify([]byte(currentPassword), user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		s.log.Error(ctx, "change password: hash failed", "user_id", userID, "error", err)
		return ErrInternal
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.log.Error(ctx, "change password: update failed", "user_id", userID, "error", err)
		return ErrInternal
	}
	if err := s.RevokeOtherSessions(ctx, userID, currentAccessToken); err != nil {
		return err
	}
	s.record(ctx, userID, "", auditdomain.ActionPasswordChanged, "", "")
	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// RevokeOtherSessions revokes every active session of the user except the one
// behind currentAccessToken. An empty token revokes all of them.
func (s *Service) RevokeOtherSessions(ctx context.Context, userID, currentAccessToken string) error {
	exceptID := ""
	if currentAccessToken != "" {
		sess, err := s.sessions.GetByAccessTokenHash(ctx, security.HashToken(currentAccessToken))
		if err != nil {
			s.log.Error(ctx, "revoke sessions: current session lookup failed", "user_id", userID, "error", err)
			return ErrInternal
		}
		if sess != nil && sess.UserID == userID {
			exceptID = sess.ID
		}
	}
	if err := s.sessions.RevokeAllByUser(ctx, userID, exceptID); err != nil {
		s.log.Error(ctx, "revoke sessions: revoke all failed", "user_id", userID, "error", err)
		return ErrInternal
	}
	s.metrics.Revocation(ctx)
	s.record(ctx, userID, exceptID, auditdomain.ActionSessionsRevoked, "", "")
	s.log.Info(ctx, "sessions revoked", "user_id", userID, "kept_session_id", exceptID)
	return nil
}

// RevokeAllSessions revokes every active session of the user. Used by admin
// tooling and by password-reset confirmation.
func (s *Service) RevokeAllSessions(ctx context.Context, userID string) error {
	return s.RevokeOtherSessions(ctx, userID, "")
}

func (s *Service) createSession(ctx context.Context, user *userdomain.User, rc RequestContext) (*TokenPair, error) {
	access, _, accessExp, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, _, refreshExp, err := s.tokens.IssueRefresh(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &sessdomain.Session{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		AccessTokenHash:  security.HashToken(access),
		RefreshTokenHash: security.HashToken(refresh),
		IPAddress:        rc.IP,
		UserAgent:        rc.UserAgent,
		ExpiresAt:        refreshExp,
		CreatedAt:        now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		SessionID:        sess.ID,
		User:             user,
	}, nil
}

// isBlacklisted consults the revocation cache under the configured timeout.
// Cache failures count as not-revoked: the durable session check behind it
// still catches revoked sessions, so degrading here trades a bounded staleness
// window for availability.
func (s *Service) isBlacklisted(ctx context.Context, token string) bool {
	if s.cache == nil {
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()
	revoked, err := s.cache.Exists(cctx, token)
	if err != nil {
		s.log.Warn(ctx, "revocation cache unavailable, failing open", "error", err)
		return false
	}
	return revoked
}

func (s *Service) blacklist(ctx context.Context, token string, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()
	if err := s.cache.Put(cctx, token, ttl); err != nil {
		// The session row is already revoked, so the durable check still rejects
		// this token; losing the cache entry only slows the rejection down.
		s.log.Warn(ctx, "revocation cache put failed", "error", err)
	}
}

func mapTokenError(err error) error {
	if err == security.ErrExpiredToken {
		return ErrExpired
	}
	return ErrInvalidToken
}
