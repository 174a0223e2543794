// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"warden/config"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy passwordPolicy
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{
		cost:   cost,
		policy: newPasswordPolicy(cfg.PasswordStrength),
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt handles salt generation, so the same input hashes differently every call.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash. The comparison is
// constant-time inside bcrypt; a malformed hash reports false rather than erroring.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidateStrength applies the configured password policy.
func (h *bcryptHasher) ValidateStrength(password string) error {
	return h.policy.validate(password)
}
