package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// TestRepository encapsulates exam definition persistence.
type TestRepository interface {
	Create(ctx context.Context, test *domain.Test) error
	Update(ctx context.Context, test *domain.Test) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Test, error)
	List(ctx context.Context, limit, offset int) ([]domain.Test, error)
}

type testRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository instantiates repository.
func NewTestRepository(pool *pgxpool.Pool) TestRepository {
	return &testRepository{pool: pool}
}

func (r *testRepository) Create(ctx context.Context, test *domain.Test) error {
	const query = `
        INSERT INTO tests (title, description, duration_minutes, created_by)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		test.Title,
		test.Description,
		test.DurationMinutes,
		test.CreatedBy,
	).Scan(&test.ID, &test.CreatedAt, &test.UpdatedAt)
}

func (r *testRepository) Update(ctx context.Context, test *domain.Test) error {
	const query = `
        UPDATE tests SET title=$1, description=$2, duration_minutes=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		test.Title,
		test.Description,
		test.DurationMinutes,
		test.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *testRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tests WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *testRepository) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	const query = `
        SELECT id, title, description, duration_minutes, created_by, created_at, updated_at
        FROM tests WHERE id=$1`

	var test domain.Test
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&test.ID,
		&test.Title,
		&test.Description,
		&test.DurationMinutes,
		&test.CreatedBy,
		&test.CreatedAt,
		&test.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) List(ctx context.Context, limit, offset int) ([]domain.Test, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, title, description, duration_minutes, created_by, created_at, updated_at
        FROM tests ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Test
	for rows.Next() {
		var test domain.Test
		if err := rows.Scan(
			&test.ID,
			&test.Title,
			&test.Description,
			&test.DurationMinutes,
			&test.CreatedBy,
			&test.CreatedAt,
			&test.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, test)
	}
	return result, rows.Err()
}
