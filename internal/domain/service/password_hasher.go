// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. Two calls with
	// the same input yield different outputs, so hashes must never be
	// compared for equality; use Check.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// It fails closed: a malformed hash simply reports false.
	Check(password, hash string) bool

	// ValidateStrength reports whether the plaintext satisfies the configured
	// password policy. Returns domainerrors.ErrPasswordStrength on violation.
	ValidateStrength(password string) error
}
