package middleware

import (
	"strings"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/delivery/http/response"
	"warden/internal/domain/entity"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards routes behind bearer-token authorization.
type AuthMiddleware struct {
	auth usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(auth usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate extracts the token from the Authorization header, runs the
// full authorization flow (validate, cache, directory) and stores the
// resolved identity on the request context. Rejections flow to the central
// error handler so the taxonomy codes reach the client unchanged.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "MISSING_TOKEN", "Invalid token format, must be Bearer token")
		}

		identity, err := m.auth.Authorize(c.Request().Context(), tokenString)
		if err != nil {
			return err
		}

		c.Set(deliverycontext.KeyIdentity, identity)

		return next(c)
	}
}

// IdentityFromContext returns the identity stored by Authenticate, or nil.
func IdentityFromContext(c echo.Context) *entity.User {
	identity, _ := c.Get(deliverycontext.KeyIdentity).(*entity.User)

	return identity
}
