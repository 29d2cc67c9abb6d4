package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goalweek/goalweek/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

const goalColumns = `id, title, desired_weekly_frequency, created_at`

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	// ByIDForUpdate loads a goal and locks its row until the surrounding transaction ends.
	ByIDForUpdate(ctx context.Context, goalID string) (*model.Goal, error)
	CreatedBefore(ctx context.Context, instant time.Time) ([]*model.Goal, error)
	Pending(ctx context.Context, start, end time.Time) ([]*model.PendingGoal, error)
	TotalFrequency(ctx context.Context, end time.Time) (int, error)
}

type goalRepository struct {
	db sqlx.ExtContext
}

// NewGoalRepository works on a pool or on a transaction.
func NewGoalRepository(db sqlx.ExtContext) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, title, desired_weekly_frequency, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.DesiredWeeklyFrequency,
		goal.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	return r.get(ctx, query, goalID)
}

func (r *goalRepository) ByIDForUpdate(ctx context.Context, goalID string) (*model.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	// SQLite has no row locks; its single pooled connection already serialises writers
	if r.db.DriverName() != "sqlite" {
		query += ` FOR UPDATE`
	}

	return r.get(ctx, query, goalID)
}

func (r *goalRepository) get(ctx context.Context, query, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}

	err := sqlx.GetContext(ctx, r.db, goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}

	return goal, nil
}

func (r *goalRepository) CreatedBefore(ctx context.Context, instant time.Time) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE created_at <= $1 ORDER BY created_at ASC, id ASC`

	err := sqlx.SelectContext(ctx, r.db, &goals, query, instant.UTC())
	if err != nil {
		return nil, fmt.Errorf("query goals created before %s: %w", instant.Format(time.RFC3339), err)
	}

	return goals, nil
}

// Pending lists every goal that exists by end, with its completions in [start, end].
// Goals without completions report a zero count.
func (r *goalRepository) Pending(ctx context.Context, start, end time.Time) ([]*model.PendingGoal, error) {
	pending := []*model.PendingGoal{}
	query := `
		WITH completion_counts AS (
			SELECT goal_id, COUNT(id) AS completion_count
			FROM goal_completions
			WHERE created_at >= $1 AND created_at <= $2
			GROUP BY goal_id
		),
		goals_up_to_week AS (
			SELECT id, title, desired_weekly_frequency, created_at
			FROM goals
			WHERE created_at <= $2
		)
		SELECT g.id, g.title, g.desired_weekly_frequency,
		       COALESCE(cc.completion_count, 0) AS completion_count
		FROM goals_up_to_week g
		LEFT JOIN completion_counts cc ON cc.goal_id = g.id
		ORDER BY g.created_at ASC, g.id ASC`

	err := sqlx.SelectContext(ctx, r.db, &pending, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query pending goals: %w", err)
	}

	return pending, nil
}

// TotalFrequency sums the desired weekly frequency of goals that exist by end.
func (r *goalRepository) TotalFrequency(ctx context.Context, end time.Time) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(desired_weekly_frequency), 0) FROM goals WHERE created_at <= $1`

	err := sqlx.GetContext(ctx, r.db, &total, query, end.UTC())
	if err != nil {
		return 0, fmt.Errorf("sum desired weekly frequency: %w", err)
	}

	return total, nil
}
