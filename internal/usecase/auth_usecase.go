// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User `json:"user"`
}

// LoginOutput returns the issued bearer token after a successful login.
type LoginOutput struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// AuthUsecase is the authenticator: it orchestrates credential verification,
// token issuance and request authorization over the user directory, the
// password hasher, the token codec and the session cache. This is the
// contract the delivery layer depends on.
type AuthUsecase interface {
	// Register creates a new account. Duplicate emails fail with
	// domainerrors.ErrUserAlreadyExists.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the credential and issues a bearer token. Unknown
	// accounts and wrong passwords are indistinguishable: both fail with
	// domainerrors.ErrInvalidCredentials.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Authorize validates a presented token and resolves the identity it
	// asserts. Failures are one of ErrTokenMalformed, ErrTokenExpired,
	// ErrTokenSignatureInvalid or ErrAccountNotFound.
	Authorize(ctx context.Context, presentedToken string) (*entity.User, error)

	// GetUser fetches a single account by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// ListUsers returns accounts ordered by creation time.
	ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
