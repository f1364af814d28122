package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/pkg/helpers"
)

func TestSeeder_FreshStore(t *testing.T) {
	users := newStubUserRepo()
	roles := &stubRoleRepo{roles: map[string]entity.Role{}}
	s := &Seeder{Users: users, Roles: roles, Logger: helpers.NewLogger("test", "test")}

	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, roles.roles, 3)
	for _, role := range entity.CanonicalRoles {
		assert.Equal(t, role, roles.roles[role.Name])
	}

	for _, username := range []string{"user", "mod", "admin"} {
		u, err := users.FindByUsername(context.Background(), username)
		require.NoError(t, err)
		assert.NotEqual(t, baselinePassword, u.Password)
		assert.True(t, helpers.CompareHashAndPassword(u.Password, baselinePassword))
	}

	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleAdmin}, admin.RoleNames())
}

func TestSeeder_PopulatedStoreSkipped(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo() // already holds the canonical set
	s := &Seeder{Users: users, Roles: roles, Logger: helpers.NewLogger("test", "test")}

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, users.byUsername, "seeder must not touch a populated store")
}
