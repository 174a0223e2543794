package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/validator"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase returns canned results so the tests exercise only the
// HTTP surface: binding, validation and the error envelope.
type stubAuthUsecase struct {
	registerOutput *usecase.RegisterOutput
	registerErr    error
	loginOutput    *usecase.LoginOutput
	loginErr       error
	authorizeUser  *entity.User
	authorizeErr   error
}

func (s *stubAuthUsecase) Register(context.Context, *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return s.registerOutput, s.registerErr
}

func (s *stubAuthUsecase) Login(context.Context, *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.loginErr
}

func (s *stubAuthUsecase) Authorize(context.Context, string) (*entity.User, error) {
	return s.authorizeUser, s.authorizeErr
}

func (s *stubAuthUsecase) GetUser(context.Context, uuid.UUID) (*entity.User, error) {
	return s.authorizeUser, s.authorizeErr
}

func (s *stubAuthUsecase) ListUsers(context.Context, int, int) ([]*entity.User, error) {
	return nil, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func performRequest(e *echo.Echo, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestAuthHandler_Register_Integration(t *testing.T) {
	registered := &entity.User{
		ID:    uuid.New(),
		Email: "new@example.com",
		Role:  entity.RoleUser,
	}
	stub := &stubAuthUsecase{registerOutput: &usecase.RegisterOutput{User: registered}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := newTestEcho()
	e.POST("/auth/register", NewAuthHandler(stub, logger).Register)

	rec := performRequest(e, http.MethodPost, "/auth/register",
		`{"email":"new@example.com","password":"Sup3r-Secretive!"}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, "new@example.com")
	assert.Contains(t, body, registered.ID.String())
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthUsecase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := newTestEcho()
	e.POST("/auth/register", NewAuthHandler(stub, logger).Register)

	tests := []struct {
		name string
		body string
	}{
		{"not an email", `{"email":"not-an-email","password":"Sup3r-Secretive!"}`},
		{"missing password", `{"email":"new@example.com"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(e, http.MethodPost, "/auth/register", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthUsecase{
		registerErr: domainerrors.ErrUserAlreadyExists.WrapMessage("user registration failed"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := newTestEcho()
	e.POST("/auth/register", NewAuthHandler(stub, logger).Register)

	rec := performRequest(e, http.MethodPost, "/auth/register",
		`{"email":"taken@example.com","password":"Sup3r-Secretive!"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")
}

func TestAuthHandler_Login_Integration(t *testing.T) {
	stub := &stubAuthUsecase{
		loginOutput: &usecase.LoginOutput{Token: "issued-token", TokenType: "bearer"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := newTestEcho()
	e.POST("/auth/login", NewAuthHandler(stub, logger).Login)

	rec := performRequest(e, http.MethodPost, "/auth/login",
		`{"email":"member@example.com","password":"Sup3r-Secretive!"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"token":"issued-token"`)
	assert.Contains(t, body, `"token_type":"bearer"`)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthUsecase{
		loginErr: domainerrors.ErrInvalidCredentials.WrapMessage("login failed"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := newTestEcho()
	e.POST("/auth/login", NewAuthHandler(stub, logger).Login)

	rec := performRequest(e, http.MethodPost, "/auth/login",
		`{"email":"member@example.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "INVALID_CREDENTIALS")
	// The rejection must not hint at whether the account exists.
	assert.NotContains(t, body, "not found")
}

func TestAuthMiddleware_Authenticate_Integration(t *testing.T) {
	identity := &entity.User{
		ID:    uuid.New(),
		Email: "member@example.com",
		Role:  entity.RoleUser,
	}

	tests := []struct {
		name       string
		stub       *stubAuthUsecase
		authHeader string
		wantStatus int
		wantInBody string
	}{
		{
			name:       "valid token",
			stub:       &stubAuthUsecase{authorizeUser: identity},
			authHeader: "Bearer issued-token",
			wantStatus: http.StatusOK,
			wantInBody: identity.Email,
		},
		{
			name:       "missing header",
			stub:       &stubAuthUsecase{},
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "MISSING_TOKEN",
		},
		{
			name:       "not a bearer token",
			stub:       &stubAuthUsecase{},
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "MISSING_TOKEN",
		},
		{
			name:       "expired token",
			stub:       &stubAuthUsecase{authorizeErr: domainerrors.ErrTokenExpired.WrapMessage("access token expired")},
			authHeader: "Bearer stale-token",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "TOKEN_EXPIRED",
		},
		{
			name:       "tampered token",
			stub:       &stubAuthUsecase{authorizeErr: domainerrors.ErrTokenSignatureInvalid.WrapMessage("signature mismatch")},
			authHeader: "Bearer tampered-token",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "INVALID_SIGNATURE",
		},
		{
			name:       "deleted account",
			stub:       &stubAuthUsecase{authorizeErr: domainerrors.ErrAccountNotFound.WrapMessage("token subject no longer exists")},
			authHeader: "Bearer orphan-token",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "ACCOUNT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			e := newTestEcho()
			authMW := middleware.NewAuthMiddleware(tt.stub)
			e.GET("/user/me", NewUserHandler(tt.stub, logger).Me, authMW.Authenticate)

			header := http.Header{}
			if tt.authHeader != "" {
				header.Set("Authorization", tt.authHeader)
			}

			rec := performRequest(e, http.MethodGet, "/user/me", "", header)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
		})
	}
}
