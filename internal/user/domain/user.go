package domain

import (
	"errors"
	"time"
)

// User is the subject of authentication: the credential holder and the anchor
// for role resolution. Event-management fields (owned events, invitations)
// live outside this core.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	// RoleID is nil for subjects without a role assignment.
	RoleID *int64
	// RoleName is the assigned role's name, loaded alongside the user for the
	// token role hint. Empty when RoleID is nil.
	RoleName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the user for persistence.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
