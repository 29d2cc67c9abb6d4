package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goalweek/goalweek/internal/model"
)

type CompletionRepository interface {
	Create(ctx context.Context, completion *model.Completion) error
	CountInRange(ctx context.Context, goalID string, start, end time.Time) (int, error)
	// InRange returns completions in [start, end] joined with their goal, newest first.
	InRange(ctx context.Context, start, end time.Time) ([]*model.WeekCompletion, error)
}

type completionRepository struct {
	db sqlx.ExtContext
}

func NewCompletionRepository(db sqlx.ExtContext) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Create(ctx context.Context, completion *model.Completion) error {
	query := `INSERT INTO goal_completions (id, goal_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, completion.ID, completion.GoalID, completion.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}

	return nil
}

func (r *completionRepository) CountInRange(ctx context.Context, goalID string, start, end time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goal_completions WHERE goal_id = $1 AND created_at >= $2 AND created_at <= $3`

	err := sqlx.GetContext(ctx, r.db, &count, query, goalID, start.UTC(), end.UTC())
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}

	return count, nil
}

func (r *completionRepository) InRange(ctx context.Context, start, end time.Time) ([]*model.WeekCompletion, error) {
	completions := []*model.WeekCompletion{}
	query := `
		SELECT c.id, c.goal_id, g.title, c.created_at AS completed_at
		FROM goal_completions c
		INNER JOIN goals g ON g.id = c.goal_id
		WHERE c.created_at >= $1 AND c.created_at <= $2
		ORDER BY c.created_at DESC, c.id DESC`

	err := sqlx.SelectContext(ctx, r.db, &completions, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query completions in range: %w", err)
	}

	return completions, nil
}
