// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record: one row per account, with the email
// acting as the unique login identifier. The password hash is owned
// exclusively by this record and is never compared directly; verification
// always goes through the PasswordHasher service.
type User struct {
	ID           uuid.UUID `json:"id"`         // The global unique identifier for the user.
	Email        string    `json:"email"`      // The unique login identifier.
	PasswordHash string    `json:"-"`          // bcrypt hash of the user's password. Never logged or transmitted.
	Role         Role      `json:"role"`       // The user's role, defaults to RoleUser on registration.
	CreatedAt    time.Time `json:"created_at"` // Timestamp of when this account was created.
	UpdatedAt    time.Time `json:"updated_at"` // Timestamp of the last modification to this record.
}

// Sanitized returns a copy of the user with the credential material removed.
// Delivery layers must only ever serialize sanitized users.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""

	return &clone
}
