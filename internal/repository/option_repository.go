package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// OptionRepository encapsulates answer-option persistence.
type OptionRepository interface {
	Create(ctx context.Context, option *domain.Option) error
	Update(ctx context.Context, option *domain.Option) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Option, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.Option, error)
}

type optionRepository struct {
	pool *pgxpool.Pool
}

// NewOptionRepository instantiates repository.
func NewOptionRepository(pool *pgxpool.Pool) OptionRepository {
	return &optionRepository{pool: pool}
}

func (r *optionRepository) Create(ctx context.Context, option *domain.Option) error {
	const query = `
        INSERT INTO options (question_id, body, correct)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		option.QuestionID,
		option.Body,
		option.Correct,
	).Scan(&option.ID, &option.CreatedAt)
}

func (r *optionRepository) Update(ctx context.Context, option *domain.Option) error {
	const query = `UPDATE options SET body=$1, correct=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, option.Body, option.Correct, option.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *optionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM options WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *optionRepository) GetByID(ctx context.Context, id string) (*domain.Option, error) {
	const query = `
        SELECT id, question_id, body, correct, created_at
        FROM options WHERE id=$1`

	var option domain.Option
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&option.ID,
		&option.QuestionID,
		&option.Body,
		&option.Correct,
		&option.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) ListByQuestion(ctx context.Context, questionID string) ([]domain.Option, error) {
	const query = `
        SELECT id, question_id, body, correct, created_at
        FROM options WHERE question_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Option
	for rows.Next() {
		var option domain.Option
		if err := rows.Scan(
			&option.ID,
			&option.QuestionID,
			&option.Body,
			&option.Correct,
			&option.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, option)
	}
	return result, rows.Err()
}
