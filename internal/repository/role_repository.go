package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// RoleRepository defines persistence access for roles and their permission
// assignments.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context, limit, offset int) ([]domain.Role, error)
	AssignPermission(ctx context.Context, roleID, permissionID string) error
	RevokePermission(ctx context.Context, roleID, permissionID string) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name) VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, role.Name).
		Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	const query = `UPDATE roles SET name=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, role.Name, role.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM roles WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT id, name, created_at, updated_at FROM roles WHERE id=$1`
	return r.fetchWithPermissions(ctx, query, id)
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	const query = `SELECT id, name, created_at, updated_at FROM roles WHERE name=$1`
	return r.fetchWithPermissions(ctx, query, name)
}

func (r *roleRepository) fetchWithPermissions(ctx context.Context, query string, arg any) (*domain.Role, error) {
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&role.ID,
		&role.Name,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const permQuery = `
        SELECT p.id, p.name, p.created_at
        FROM permissions p
        JOIN role_permissions rp ON rp.permission_id = p.id
        WHERE rp.role_id = $1
        ORDER BY p.name`

	rows, err := r.pool.Query(ctx, permQuery, role.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.CreatedAt); err != nil {
			return nil, err
		}
		role.Permissions = append(role.Permissions, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, limit, offset int) ([]domain.Role, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, name, created_at, updated_at
        FROM roles ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) AssignPermission(ctx context.Context, roleID, permissionID string) error {
	const query = `
        INSERT INTO role_permissions (role_id, permission_id)
        VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, roleID, permissionID)
	return err
}

func (r *roleRepository) RevokePermission(ctx context.Context, roleID, permissionID string) error {
	const query = `DELETE FROM role_permissions WHERE role_id=$1 AND permission_id=$2`
	cmd, err := r.pool.Exec(ctx, query, roleID, permissionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
