package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAccessAndRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	userID, role := "u1", "AUTHOR"

	access, accessJti, exp, err := p.IssueAccess(userID, role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access == "" || accessJti == "" {
		t.Fatal("access token or jti empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	refresh, jti, refreshExp, err := p.IssueRefresh(userID, role)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh == "" || jti == "" {
		t.Fatal("refresh token or jti empty")
	}
	if refreshExp.Before(exp) {
		t.Fatal("refresh should outlive access")
	}

	info, err := p.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if info.UserID != userID || info.Role != role || info.JTI != jti {
		t.Errorf("VerifyRefresh: got userID=%q role=%q jti=%q", info.UserID, info.Role, info.JTI)
	}
}

func TestTokenProvider_VerifyAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, _, err := p.IssueAccess("u1", "EDITOR")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	info, err := p.VerifyAccess(access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if info.UserID != "u1" || info.Role != "EDITOR" {
		t.Errorf("VerifyAccess: got userID=%q role=%q", info.UserID, info.Role)
	}
	if info.ExpiresAt.IsZero() {
		t.Error("VerifyAccess: ExpiresAt not populated")
	}
}

func TestTokenProvider_VerifyInvalid(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.VerifyAccess("invalid-token"); err != ErrInvalidToken {
		t.Errorf("VerifyAccess invalid token: want ErrInvalidToken, got %v", err)
	}
	if _, err := p.VerifyRefresh("invalid-token"); err != ErrInvalidToken {
		t.Errorf("VerifyRefresh invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_KindMismatch(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, _, err := p.IssueAccess("u1", "VIEWER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	// A valid access token must not pass refresh verification.
	if _, err := p.VerifyRefresh(access); err != ErrInvalidToken {
		t.Errorf("VerifyRefresh with access token: want ErrInvalidToken, got %v", err)
	}
	refresh, _, _, err := p.IssueRefresh("u1", "VIEWER")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := p.VerifyAccess(refresh); err != ErrInvalidToken {
		t.Errorf("VerifyAccess with refresh token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_Expired(t *testing.T) {
	p, err := NewTestTokenProviderTTL(-time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	access, _, _, err := p.IssueAccess("u1", "VIEWER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.VerifyAccess(access); err != ErrExpiredToken {
		t.Errorf("VerifyAccess expired token: want ErrExpiredToken, got %v", err)
	}
}

func TestTokenProvider_WrongIssuer(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	issuerA := NewTokenProvider(signer, pub, "issuer-a", "aud", time.Minute, time.Hour)
	issuerB := NewTokenProvider(signer, pub, "issuer-b", "aud", time.Minute, time.Hour)

	access, _, _, err := issuerA.IssueAccess("u1", "VIEWER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuerB.VerifyAccess(access); err != ErrInvalidToken {
		t.Errorf("VerifyAccess wrong issuer: want ErrInvalidToken, got %v", err)
	}
}
