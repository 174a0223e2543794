// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"warden/config"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
	"warden/internal/errors"
)

// minSecretLength guards against weak HMAC keys; anything shorter than the
// HS256 output size is rejected at startup.
const minSecretLength = 32

// jwtCodec is a concrete implementation of the TokenCodec interface using HS256 JWTs.
// It holds no mutable state: the secret and parser are fixed at construction,
// so it is safe for unlimited concurrent use.
type jwtCodec struct {
	secret    []byte
	accessTTL time.Duration
	parser    *jwt.Parser
}

// NewJWTCodec is the constructor for jwtCodec. A missing or short signing
// secret is a configuration error and fails here, never per-request.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg.Auth == nil || len(cfg.Auth.AccessSecret) < minSecretLength {
		return nil, domainerrors.ErrSigningKeyMissing.WrapMessage("access secret must be at least 32 bytes")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	// Clock-skew tolerance is explicit, opt-in configuration; zero means the
	// expiry instant is compared against the system clock with no grace.
	if cfg.Auth.ClockSkewLeeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Auth.ClockSkewLeeway))
	}

	return &jwtCodec{
		secret:    []byte(cfg.Auth.AccessSecret),
		accessTTL: cfg.Auth.AccessTokenTTL,
		parser:    jwt.NewParser(opts...),
	}, nil
}

// Issue creates a signed access token for the given identity.
func (c *jwtCodec) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// Validate parses a token string and verifies signature and expiry,
// translating jwt/v5 sentinels into the domain taxonomy.
func (c *jwtCodec) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		// Distinct from a bad signature so callers can answer "please
		// re-login" instead of "tampered token".
		return nil, domainerrors.ErrTokenExpired.WrapMessage("access token expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, domainerrors.ErrTokenSignatureInvalid.WrapMessage("access token signature mismatch")
	default:
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("access token does not parse")
	}
}

// AccessTokenDuration returns the configured access-token TTL.
func (c *jwtCodec) AccessTokenDuration() time.Duration {
	return c.accessTTL
}
