package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// QuestionRepository encapsulates question persistence.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	ListByTest(ctx context.Context, testID string) ([]domain.Question, error)
}

type questionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository instantiates repository.
func NewQuestionRepository(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepository{pool: pool}
}

func (r *questionRepository) Create(ctx context.Context, question *domain.Question) error {
	const query = `
        INSERT INTO questions (test_id, body, score)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		question.TestID,
		question.Body,
		question.Score,
	).Scan(&question.ID, &question.CreatedAt, &question.UpdatedAt)
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question) error {
	const query = `
        UPDATE questions SET body=$1, score=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, question.Body, question.Score, question.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM questions WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	const query = `
        SELECT id, test_id, body, score, created_at, updated_at
        FROM questions WHERE id=$1`

	var question domain.Question
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&question.ID,
		&question.TestID,
		&question.Body,
		&question.Score,
		&question.CreatedAt,
		&question.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) ListByTest(ctx context.Context, testID string) ([]domain.Question, error) {
	const query = `
        SELECT id, test_id, body, score, created_at, updated_at
        FROM questions WHERE test_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(
			&question.ID,
			&question.TestID,
			&question.Body,
			&question.Score,
			&question.CreatedAt,
			&question.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, question)
	}
	return result, rows.Err()
}
