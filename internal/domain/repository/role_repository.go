package repository

import (
	"context"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
)

// RoleRepository defines the interface for the canonical role set.
type RoleRepository interface {
	// GetByNames returns the roles whose names appear in names. Unknown
	// names are simply absent from the result; callers compare lengths.
	GetByNames(ctx context.Context, names []string) ([]entity.Role, error)

	// Count returns the number of role rows; zero means a fresh store.
	Count(ctx context.Context) (int64, error)

	// InsertAll inserts the given roles with their fixed identifiers.
	// Used only by the seed bootstrapper against a fresh store.
	InsertAll(ctx context.Context, roles []entity.Role) error
}
