package domain

import (
	"errors"
	"time"
)

// User is the core user entity.
type User struct {
	ID              string
	Email           string
	Username        string
	PasswordHash    string
	Role            Role
	IsActive        bool
	EmailVerifiedAt *time.Time // nil until the verification token is redeemed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Role is the user's site-wide role.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEditor    Role = "EDITOR"
	RoleAuthor    Role = "AUTHOR"
	RoleModerator Role = "MODERATOR"
	RoleViewer    Role = "VIEWER"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuthor, RoleModerator, RoleViewer:
		return true
	}
	return false
}

// EmailVerified reports whether the user has redeemed an email-verification token.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if !u.Role.Valid() {
		return errors.New("unknown role")
	}
	return nil
}
