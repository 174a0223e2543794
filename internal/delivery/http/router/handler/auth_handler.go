// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"warden/internal/delivery/http/response"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	auth   usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(auth usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.auth.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login handles the credential verification and token issuance request.
// The rejection carries no detail distinguishing "unknown user" from "wrong secret".
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.auth.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}
