package entity

// Role is an authorization role. Many-to-many with User via user_roles.
// The role set is closed: it is seeded once at bootstrap and read-only
// afterwards.
type Role struct {
	ID   int64
	Name string
}

// Canonical role names and their fixed identifiers.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// CanonicalRoles is the fixed enumeration inserted by the seeder.
var CanonicalRoles = []Role{
	{ID: 1, Name: RoleUser},
	{ID: 2, Name: RoleModerator},
	{ID: 3, Name: RoleAdmin},
}
