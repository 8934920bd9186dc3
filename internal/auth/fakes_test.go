package auth

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"inkwell-cms/backend/internal/revocation"
	"inkwell-cms/backend/internal/security"
	sessdomain "inkwell-cms/backend/internal/session/domain"
	userdomain "inkwell-cms/backend/internal/user/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*userdomain.User
	byEmail map[string]*userdomain.User

	failGets bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*userdomain.User),
		byEmail: make(map[string]*userdomain.User),
	}
}

func (r *memUserRepo) add(u *userdomain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGets {
		return nil, errors.New("user repo down")
	}
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGets {
		return nil, errors.New("user repo down")
	}
	return r.byEmail[email], nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u2 := *u
		u2.PasswordHash = passwordHash
		r.byID[userID] = &u2
		r.byEmail[u.Email] = &u2
	}
	return nil
}

type memSessionRepo struct {
	mu sync.Mutex
	m  map[string]*sessdomain.Session

	failGets bool
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{m: make(map[string]*sessdomain.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessdomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.m[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) get(id string) *sessdomain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (r *memSessionRepo) GetByAccessTokenHash(ctx context.Context, hash string) (*sessdomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGets {
		return nil, errors.New("session repo down")
	}
	for _, s := range r.m {
		if s.AccessTokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*sessdomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGets {
		return nil, errors.New("session repo down")
	}
	for _, s := range r.m {
		if s.RefreshTokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*sessdomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*sessdomain.Session
	for _, s := range r.m {
		if s.UserID == userID && s.Active(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memSessionRepo) RotateTokens(ctx context.Context, sessionID, currentRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time, ip, userAgent string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[sessionID]
	if !ok || s.RevokedAt != nil || s.RefreshTokenHash != currentRefreshHash {
		return false, nil
	}
	s.AccessTokenHash = newAccessHash
	s.RefreshTokenHash = newRefreshHash
	s.ExpiresAt = expiresAt
	s.IPAddress = ip
	s.UserAgent = userAgent
	return true, nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok && s.RevokedAt == nil {
		now := time.Now().UTC()
		s.RevokedAt = &now
	}
	return nil
}

func (r *memSessionRepo) RevokeAllByUser(ctx context.Context, userID, exceptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, s := range r.m {
		if s.UserID == userID && s.ID != exceptID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *memSessionRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.LastSeenAt = &at
	}
	return nil
}

func (r *memSessionRepo) setExpiry(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.ExpiresAt = at
	}
}

func (r *memSessionRepo) activeCount(userID string, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.m {
		if s.UserID == userID && s.Active(now) {
			n++
		}
	}
	return n
}

// errCache fails every call, for fail-open coverage.
type errCache struct{}

func (errCache) Put(ctx context.Context, token string, ttl time.Duration) error {
	return errors.New("cache down")
}

func (errCache) Exists(ctx context.Context, token string) (bool, error) {
	return false, errors.New("cache down")
}

type fixture struct {
	svc      *Service
	users    *memUserRepo
	sessions *memSessionRepo
	cache    revocation.Cache
	user     *userdomain.User
}

const testPassword = "s3cret-pass"

func newFixture(t *testing.T, maxSessions int, strictIP bool) *fixture {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	return newFixtureWithTokens(t, maxSessions, strictIP, tokens)
}

func newFixtureWithTokens(t *testing.T, maxSessions int, strictIP bool, tokens *security.TokenProvider) *fixture {
	t.Helper()
	hasher := security.NewHasher(4)
	hash, err := hasher.Hash([]byte(testPassword))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &userdomain.User{
		ID:           "u-1",
		Email:        "author@example.com",
		Username:     "author",
		PasswordHash: hash,
		Role:         userdomain.RoleAuthor,
		IsActive:     true,
	}
	users := newMemUserRepo()
	users.add(u)
	sessions := newMemSessionRepo()
	cache := revocation.NewMemoryCache()
	svc := NewService(users, sessions, cache, hasher, tokens,
		maxSessions, strictIP, time.Second, nil, nil)
	return &fixture{svc: svc, users: users, sessions: sessions, cache: cache, user: u}
}

var testRC = RequestContext{IP: "1.1.1.1", UserAgent: "test-agent"}
