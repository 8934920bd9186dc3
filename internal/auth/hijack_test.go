package auth

import (
	"context"
	"testing"
)

func TestIPPolicy_StrictRejectsAndRevokes(t *testing.T) {
	f := newFixture(t, 5, true)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, f.user.Email, testPassword, RequestContext{IP: "1.1.1.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = f.svc.Authenticate(ctx, pair.AccessToken, RequestContext{IP: "2.2.2.2"})
	if err != ErrForbidden {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if sess := f.sessions.get(pair.SessionID); sess.RevokedAt == nil {
		t.Fatal("strict mode must revoke the session on IP mismatch")
	}
	// The original IP cannot use the session either; it is gone for good.
	if _, err := f.svc.Authenticate(ctx, pair.AccessToken, RequestContext{IP: "1.1.1.1"}); err != ErrRevoked {
		t.Fatalf("got %v, want ErrRevoked", err)
	}
}

func TestIPPolicy_StrictSameIPPasses(t *testing.T) {
	f := newFixture(t, 5, true)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, f.user.Email, testPassword, RequestContext{IP: "1.1.1.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, pair.AccessToken, RequestContext{IP: "1.1.1.1"}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}

func TestIPPolicy_PermissiveAllowsIPChange(t *testing.T) {
	f := newFixture(t, 5, false)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, f.user.Email, testPassword, RequestContext{IP: "1.1.1.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, pair.AccessToken, RequestContext{IP: "2.2.2.2"}); err != nil {
		t.Fatalf("permissive mode must allow the request: %v", err)
	}
	if sess := f.sessions.get(pair.SessionID); sess.RevokedAt != nil {
		t.Fatal("permissive mode must not revoke the session")
	}
}

func TestIPPolicy_NoRecordedIPSkipsCheck(t *testing.T) {
	f := newFixture(t, 5, true)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, f.user.Email, testPassword, RequestContext{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, pair.AccessToken, RequestContext{IP: "2.2.2.2"}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}
