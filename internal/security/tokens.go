package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's signature is valid but it is past expiry.
	ErrExpiredToken = errors.New("expired token")
)

// Token kinds carried in the "kind" claim. Verification rejects a token whose
// kind does not match the expected use, so an access token can never be
// presented as a refresh token or vice versa.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims holds the JWT claims for both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Kind string `json:"kind"`
}

// TokenInfo is the verified content of a token.
type TokenInfo struct {
	UserID    string
	Role      string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenProvider issues and verifies JWT access and refresh tokens using RS256 or ES256 (private/public key).
// It checks signature, expiry, issuer, and audience only; revocation and session
// state are layered on top by the session manager.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and validated on verification.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

// IssueAccess issues a short-lived access JWT for the given user and role.
// Returns the token string, its jti, and expiration time.
func (p *TokenProvider) IssueAccess(userID, role string) (token string, jti string, expiresAt time.Time, err error) {
	return p.issue(userID, role, TokenKindAccess, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh JWT for the given user and role.
// Returns the token string, its jti, and expiration time.
func (p *TokenProvider) IssueRefresh(userID, role string) (token string, jti string, expiresAt time.Time, err error) {
	return p.issue(userID, role, TokenKindRefresh, p.refreshTTL)
}

func (p *TokenProvider) issue(userID, role, kind string, ttl time.Duration) (string, string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
		Kind: kind,
	}
	token, err := p.sign(claims)
	return token, jti, expiresAt, err
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

// VerifyAccess parses and verifies an access token (signature, exp, iss, aud, kind).
// Returns ErrExpiredToken when the only defect is expiry, ErrInvalidToken otherwise.
func (p *TokenProvider) VerifyAccess(tokenString string) (*TokenInfo, error) {
	return p.verify(tokenString, TokenKindAccess)
}

// VerifyRefresh parses and verifies a refresh token (signature, exp, iss, aud, kind).
// Returns ErrExpiredToken when the only defect is expiry, ErrInvalidToken otherwise.
func (p *TokenProvider) VerifyRefresh(tokenString string) (*TokenInfo, error) {
	return p.verify(tokenString, TokenKindRefresh)
}

func (p *TokenProvider) verify(tokenString, kind string) (*TokenInfo, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	info := &TokenInfo{
		UserID: claims.Subject,
		Role:   claims.Role,
		JTI:    claims.ID,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
