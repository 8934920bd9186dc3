package auth

import "errors"

// Closed error set for the session manager; the route layer maps these to
// responses. Credential and token failures are deliberately generic so callers
// cannot probe which field or internal check failed.
var (
	// ErrInvalidCredentials covers unknown email, wrong password, and malformed
	// stored hashes alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoToken is returned when no token was presented.
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken covers bad signature, unknown token, superseded refresh
	// token, and missing session.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpired is returned for a token or session past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrRevoked is returned for a blacklisted token or revoked session.
	ErrRevoked = errors.New("token revoked")
	// ErrAccountInactive is returned when the owning account is disabled.
	ErrAccountInactive = errors.New("account inactive")
	// ErrForbidden is returned when the strict IP policy rejects the request.
	ErrForbidden = errors.New("forbidden")
	// ErrInternal is returned for repository failures; details are logged
	// server-side, never surfaced.
	ErrInternal = errors.New("internal error")
)
