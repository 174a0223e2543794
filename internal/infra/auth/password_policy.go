package auth

import (
	"strings"
	"unicode"

	"warden/config"
	domainerrors "warden/internal/domain/errors"
)

// bcrypt truncates input beyond 72 bytes, so that is the hard ceiling.
const bcryptMaxPasswordBytes = 72

// passwordPolicy enforces the configured strength requirements at registration time.
type passwordPolicy struct {
	minLength        int
	maxLength        int
	requireUppercase bool
	requireLowercase bool
	requireNumbers   bool
	requireSpecial   bool
}

func newPasswordPolicy(cfg *config.PasswordStrengthConfig) passwordPolicy {
	if cfg == nil {
		return passwordPolicy{minLength: 8, maxLength: bcryptMaxPasswordBytes}
	}

	policy := passwordPolicy{
		minLength:        cfg.MinLength,
		maxLength:        cfg.MaxLength,
		requireUppercase: cfg.RequireUppercase,
		requireLowercase: cfg.RequireLowercase,
		requireNumbers:   cfg.RequireNumbers,
		requireSpecial:   cfg.RequireSpecial,
	}
	if policy.minLength <= 0 {
		policy.minLength = 8
	}
	if policy.maxLength <= 0 || policy.maxLength > bcryptMaxPasswordBytes {
		policy.maxLength = bcryptMaxPasswordBytes
	}

	return policy
}

func (p passwordPolicy) validate(password string) error {
	if len(password) < p.minLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password too short")
	}
	if len(password) > p.maxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if p.requireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing uppercase letter")
	}
	if p.requireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing lowercase letter")
	}
	if p.requireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing digit")
	}
	if p.requireSpecial && !hasSpecial {
		return domainerrors.ErrPasswordStrength.WrapMessage("missing special character")
	}

	lowered := strings.ToLower(password)
	for _, forbidden := range []string{"password", "12345678", "qwerty"} {
		if strings.Contains(lowered, forbidden) {
			return domainerrors.ErrPasswordStrength.WrapMessage("contains forbidden word or pattern")
		}
	}

	return nil
}
