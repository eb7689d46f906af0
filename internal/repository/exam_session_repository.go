package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-service/internal/domain"
)

// ExamSessionRepository encapsulates exam attempt persistence.
type ExamSessionRepository interface {
	Create(ctx context.Context, session *domain.ExamSession) error
	GetByID(ctx context.Context, id string) (*domain.ExamSession, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ExamSession, error)
	Finish(ctx context.Context, id string, score int, finishedAt time.Time) error
}

type examSessionRepository struct {
	pool *pgxpool.Pool
}

// NewExamSessionRepository instantiates repository.
func NewExamSessionRepository(pool *pgxpool.Pool) ExamSessionRepository {
	return &examSessionRepository{pool: pool}
}

func (r *examSessionRepository) Create(ctx context.Context, session *domain.ExamSession) error {
	const query = `
        INSERT INTO exam_sessions (test_id, user_id)
        VALUES ($1, $2)
        RETURNING id, score, started_at`
	return r.pool.QueryRow(ctx, query,
		session.TestID,
		session.UserID,
	).Scan(&session.ID, &session.Score, &session.StartedAt)
}

func (r *examSessionRepository) GetByID(ctx context.Context, id string) (*domain.ExamSession, error) {
	const query = `
        SELECT id, test_id, user_id, score, started_at, finished_at
        FROM exam_sessions WHERE id=$1`

	var session domain.ExamSession
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.TestID,
		&session.UserID,
		&session.Score,
		&session.StartedAt,
		&session.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *examSessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ExamSession, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, test_id, user_id, score, started_at, finished_at
        FROM exam_sessions WHERE user_id=$1
        ORDER BY started_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ExamSession
	for rows.Next() {
		var session domain.ExamSession
		if err := rows.Scan(
			&session.ID,
			&session.TestID,
			&session.UserID,
			&session.Score,
			&session.StartedAt,
			&session.FinishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}

func (r *examSessionRepository) Finish(ctx context.Context, id string, score int, finishedAt time.Time) error {
	const query = `
        UPDATE exam_sessions SET score=$1, finished_at=$2
        WHERE id=$3 AND finished_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, score, finishedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
