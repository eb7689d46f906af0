package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// AnswerRepository encapsulates submitted answer persistence.
type AnswerRepository interface {
	Upsert(ctx context.Context, answer *domain.Answer) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error)
}

type answerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository instantiates repository.
func NewAnswerRepository(pool *pgxpool.Pool) AnswerRepository {
	return &answerRepository{pool: pool}
}

// Upsert writes the answer for (session, question), replacing the previously
// chosen option if the user re-answers.
func (r *answerRepository) Upsert(ctx context.Context, answer *domain.Answer) error {
	const query = `
        INSERT INTO answers (session_id, question_id, option_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (session_id, question_id)
        DO UPDATE SET option_id = EXCLUDED.option_id, updated_at = NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		answer.SessionID,
		answer.QuestionID,
		answer.OptionID,
	).Scan(&answer.ID, &answer.CreatedAt, &answer.UpdatedAt)
}

func (r *answerRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	const query = `
        SELECT id, session_id, question_id, option_id, created_at, updated_at
        FROM answers WHERE session_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Answer
	for rows.Next() {
		var answer domain.Answer
		if err := rows.Scan(
			&answer.ID,
			&answer.SessionID,
			&answer.QuestionID,
			&answer.OptionID,
			&answer.CreatedAt,
			&answer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, answer)
	}
	return result, rows.Err()
}
