// Package impl contains the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"
	"time"

	"warden/config"
	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// tokenType is the fixed token_type value returned on login.
const tokenType = "bearer"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	sessionCache repository.SessionCache
	hasher       service.PasswordHasher
	codec        service.TokenCodec
	cacheTTL     time.Duration
	logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	txManager repository.TransactionManager,
	userRepo repository.UserRepository,
	sessionCache repository.SessionCache,
	hasher service.PasswordHasher,
	codec service.TokenCodec,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthUsecase {
	cacheTTL := time.Duration(0)
	if cfg.Auth != nil {
		cacheTTL = cfg.Auth.SessionCacheTTL
	}

	return &authService{
		txManager:    txManager,
		userRepo:     userRepo,
		sessionCache: sessionCache,
		hasher:       hasher,
		codec:        codec,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the account registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting user registration", "email", input.Email)

	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		return nil, errors.Wrap(err, "registration rejected")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", "error", err)

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User

	// The duplicate check and the insert run in a single database transaction
	// so two concurrent registrations for the same email cannot both succeed.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("user registration failed")
		}
		// We expect a 'not found' error. If it's a different error, something went wrong.
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		newUser := &entity.User{
			Email:        input.Email,
			PasswordHash: hashedPassword,
			Role:         entity.RoleUser,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.WithStack(err)
		}
		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("User registration failed", "email", input.Email, "error", err.Error())

		return nil, srv.asDomainError(err)
	}
	srv.log(ctx).Debug("User registered successfully", "userID", registeredUser.ID)

	return &usecase.RegisterOutput{User: registeredUser.Sanitized()}, nil
}

// Login verifies the credential against the user directory and issues a token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", "email", input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown account and wrong password must be indistinguishable.
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}
		srv.log(ctx).Error("User directory unavailable during login", "error", err.Error())

		return nil, domainerrors.ErrUnavailable.WrapMessage("user directory lookup failed")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.codec.Issue(user.ID, user.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", "error", err.Error())

		return nil, errors.Wrap(err, "failed to issue access token")
	}

	// Warm the session cache so the first authorized request skips the
	// directory. Best effort: a failed put never fails the login.
	if err := srv.sessionCache.Put(ctx, user.ID.String(), user.Sanitized(), srv.identityCacheTTL(srv.codec.AccessTokenDuration())); err != nil {
		srv.log(ctx).Warn("Failed to warm session cache", "error", err.Error())
	}

	srv.log(ctx).Debug("User logged in successfully", "userID", user.ID)

	return &usecase.LoginOutput{
		Token:     token,
		TokenType: tokenType,
	}, nil
}

// Authorize validates a presented token and resolves the identity it asserts.
func (srv *authService) Authorize(ctx context.Context, presentedToken string) (*entity.User, error) {
	claims, err := srv.codec.Validate(presentedToken)
	if err != nil {
		// Malformed, expired and tampered tokens propagate distinctly.
		return nil, errors.Wrap(err, "authorization failed")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("token subject is not a valid user id")
	}

	// Fast path: the cache is advisory, a miss or error just means a
	// directory lookup.
	cacheKey := userID.String()
	if cached, err := srv.sessionCache.Get(ctx, cacheKey); err == nil {
		return cached, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		srv.log(ctx).Warn("Session cache lookup failed", "error", err.Error())
	}

	// The token alone cannot prove the account still exists; the directory
	// check is mandatory on a cache miss.
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("token subject no longer exists")
		}
		srv.log(ctx).Error("User directory unavailable during authorization", "error", err.Error())

		return nil, domainerrors.ErrUnavailable.WrapMessage("user directory lookup failed")
	}

	resolved := user.Sanitized()

	// Cache entries never outlive the token that produced them.
	if claims.ExpiresAt != nil {
		if err := srv.sessionCache.Put(ctx, cacheKey, resolved, srv.identityCacheTTL(time.Until(claims.ExpiresAt.Time))); err != nil {
			srv.log(ctx).Warn("Failed to store session cache entry", "error", err.Error())
		}
	}

	return resolved, nil
}

// GetUser fetches a single account by ID.
func (srv *authService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user lookup failed")
		}

		return nil, domainerrors.ErrUnavailable.WrapMessage("user directory lookup failed")
	}

	return user.Sanitized(), nil
}

// ListUsers returns accounts ordered by creation time.
func (srv *authService) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domainerrors.ErrUnavailable.WrapMessage("user directory listing failed")
	}

	sanitized := make([]*entity.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}

	return sanitized, nil
}

// identityCacheTTL bounds a cache entry by both the configured cache TTL and
// the remaining token validity.
func (srv *authService) identityCacheTTL(remaining time.Duration) time.Duration {
	ttl := srv.cacheTTL
	if remaining < ttl {
		ttl = remaining
	}

	return ttl
}

// asDomainError keeps domain taxonomy errors intact and surfaces everything
// else from the storage layer, database execution failures included, as
// Unavailable so transient outages stay one category.
func (srv *authService) asDomainError(err error) error {
	var dbErr *domainerrors.DatabaseExecuteError
	if errors.As(err, &dbErr) {
		return domainerrors.ErrUnavailable.WrapMessage(dbErr.Details())
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return domainerrors.ErrUnavailable.WrapMessage(err.Error())
}
