package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/response"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler exposes the thin data-access endpoints over the user directory.
type UserHandler struct {
	auth   usecase.AuthUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(auth usecase.AuthUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		auth:   auth,
		logger: logger,
	}
}

// Me returns the identity resolved by the auth middleware.
func (h *UserHandler) Me(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return response.Unauthorized(c, "MISSING_TOKEN", "No authorized identity on request")
	}

	return response.Success(c, http.StatusOK, identity, "")
}

// GetByID fetches a single account by its UUID.
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	user, err := h.auth.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// List returns accounts ordered by creation time, newest first.
func (h *UserHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.auth.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "")
}
