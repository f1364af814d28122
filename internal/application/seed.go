package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/internal/domain/repository"
	"github.com/alterlapsus/auth-api/pkg/helpers"
)

// Seeder populates a fresh store with the canonical roles and three
// baseline accounts. It runs once at process start, before the server
// accepts traffic, and is gated by an is-store-empty check so a populated
// store is left untouched.
type Seeder struct {
	Users  repository.UserRepository
	Roles  repository.RoleRepository
	Logger *logrus.Logger
}

type seedAccount struct {
	username string
	email    string
	roleID   int64
}

var baselineAccounts = []seedAccount{
	{username: "user", email: "user@mail.com", roleID: 1},
	{username: "mod", email: "mod@mail.com", roleID: 2},
	{username: "admin", email: "admin@mail.com", roleID: 3},
}

const baselinePassword = "123456"

// Run seeds roles and baseline accounts when the role table is empty.
func (s *Seeder) Run(ctx context.Context) error {
	n, err := s.Roles.Count(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n > 0 {
		helpers.LogInfo(s.Logger, "store already populated, skipping seed", logrus.Fields{"roles": n})
		return nil
	}

	if err := s.Roles.InsertAll(ctx, entity.CanonicalRoles); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	for _, acc := range baselineAccounts {
		hash, err := helpers.HashPassword(baselinePassword)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		u := &entity.User{
			Username: acc.username,
			Email:    acc.email,
			Password: hash,
		}
		if err := s.Users.Create(ctx, u, []int64{acc.roleID}); err != nil {
			return fmt.Errorf("seed user %s: %w", acc.username, err)
		}
	}

	helpers.LogInfo(s.Logger, "seeded roles and baseline accounts", logrus.Fields{
		"roles": len(entity.CanonicalRoles),
		"users": len(baselineAccounts),
	})
	return nil
}
