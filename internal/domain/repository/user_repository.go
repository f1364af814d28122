package repository

import (
	"context"
	"errors"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
)

// Storage-level outcomes surfaced to the application pipelines. The duplicate
// errors are returned both by the fast-path pre-check and by Create when the
// unique constraint fires under a concurrent signup race.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username is already in use")
	ErrDuplicateEmail    = errors.New("email is already in use")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// FindDuplicate reports whether username or email is already taken.
	// Returns nil when both are free. This is an optimization only; the
	// authoritative uniqueness guard is the constraint checked by Create.
	FindDuplicate(ctx context.Context, username, email string) error

	// Create inserts the user and its role associations in one transaction
	// and fills in the assigned ID and timestamps. A unique-constraint
	// violation is mapped to ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User, roleIDs []int64) error

	// FindByUsername loads a user with roles attached, or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
