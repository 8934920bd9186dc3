// Package domain defines one-time tokens: single-use, purpose-bound secrets
// for password reset and email verification.
package domain

import "time"

// Purpose scopes a token to exactly one flow. A token issued for one purpose
// can never redeem another.
type Purpose string

const (
	PurposePasswordReset Purpose = "PASSWORD_RESET"
	PurposeEmailVerify   Purpose = "EMAIL_VERIFY"
)

func (p Purpose) Valid() bool {
	return p == PurposePasswordReset || p == PurposeEmailVerify
}

// Token is a stored one-time token. Only the SHA-256 digest of the raw secret
// is persisted; the raw value exists solely in the email that carried it.
type Token struct {
	ID        string
	UserID    string
	TokenHash string
	Purpose   Purpose
	ExpiresAt time.Time
	UsedAt    *time.Time // nil until redeemed; set exactly once
	CreatedAt time.Time
}

// Redeemable reports whether the token can still be used at the given time.
func (t *Token) Redeemable(now time.Time) bool {
	return t.UsedAt == nil && t.ExpiresAt.After(now)
}
