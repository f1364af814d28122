package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds only the bcrypt hash, never plaintext.
//
// Username and email are globally unique; the users table enforces both.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleNames returns the names of the user's roles in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
