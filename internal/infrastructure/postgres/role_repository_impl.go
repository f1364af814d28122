package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) GetByNames(ctx context.Context, names []string) ([]entity.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name
		FROM roles
		WHERE name = ANY($1)
		ORDER BY id
	`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n)
	return n, err
}

func (r *RoleRepository) InsertAll(ctx context.Context, roles []entity.Role) error {
	for _, role := range roles {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO roles (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, role.ID, role.Name); err != nil {
			return err
		}
	}
	return nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
