package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the fixed, explicitly-typed payload carried by an access token.
// The registered claims hold subject (user ID), iat and exp; Role is the only
// application claim.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the token subject back into the user's UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenCodec issues and validates the signed, self-contained bearer tokens.
// Implementations hold no mutable state beyond the configured secret and are
// safe for unlimited concurrent use.
type TokenCodec interface {
	// Issue creates a signed token asserting the given identity. expires_at
	// is always issued_at plus the configured access-token TTL.
	Issue(userID uuid.UUID, role string) (string, error)

	// Validate parses and verifies a token string. Rejections map to the
	// domain taxonomy: ErrTokenMalformed when the encoding does not parse,
	// ErrTokenSignatureInvalid when the signature does not verify, and
	// ErrTokenExpired when a well-signed token is past its expiry.
	Validate(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured access-token TTL.
	AccessTokenDuration() time.Duration
}
