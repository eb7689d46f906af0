package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// PermissionRepository defines persistence access for permissions.
type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByName(ctx context.Context, name string) (*domain.Permission, error)
	List(ctx context.Context, limit, offset int) ([]domain.Permission, error)
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository returns a Postgres-backed implementation.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	const query = `
        INSERT INTO permissions (name) VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, permission.Name).
		Scan(&permission.ID, &permission.CreatedAt)
}

func (r *permissionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM permissions WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *permissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	const query = `SELECT id, name, created_at FROM permissions WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *permissionRepository) GetByName(ctx context.Context, name string) (*domain.Permission, error) {
	const query = `SELECT id, name, created_at FROM permissions WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *permissionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Permission, error) {
	var permission domain.Permission
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&permission.ID,
		&permission.Name,
		&permission.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) List(ctx context.Context, limit, offset int) ([]domain.Permission, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, name, created_at
        FROM permissions ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Permission
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(&permission.ID, &permission.Name, &permission.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, permission)
	}
	return result, rows.Err()
}
