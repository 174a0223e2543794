// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the user directory: it owns the durable identity records.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their login email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	// Returns domainerrors.ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// List returns users ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
