// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"
	"time"

	"warden/internal/domain/entity"
)

// ErrCacheMiss is returned when no entry exists for the given key.
// A miss is purely advisory: callers must fall back to the user directory
// and never treat it as "unauthenticated".
var ErrCacheMiss = errors.New("session cache miss")

// SessionCache is an optional fast path in front of the UserRepository during
// request authorization. Entries are keyed by the token subject and must
// never outlive the token they were resolved for.
type SessionCache interface {
	// Get returns the cached identity for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*entity.User, error)

	// Put stores the identity under key for at most ttl. Put is idempotent
	// and safe to repeat; a non-positive ttl is a no-op.
	Put(ctx context.Context, key string, user *entity.User, ttl time.Duration) error

	// Invalidate removes the entry for key, if any.
	Invalidate(ctx context.Context, key string) error
}
