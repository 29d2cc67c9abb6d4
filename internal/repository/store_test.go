package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/testdb"
)

func TestWithinGoalLockCommits(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()
	seedGoal(t, store.Goals, "g1", "Read", 2, weekStart)

	err := store.WithinGoalLock(ctx, "g1", func(tx *GoalTx) error {
		assert.Equal(t, "Read", tx.Goal.Title)
		return tx.Completions.Create(ctx, &model.Completion{ID: "c1", GoalID: "g1", CreatedAt: weekStart})
	})
	require.NoError(t, err)

	count, err := store.Completions.CountInRange(ctx, "g1", weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWithinGoalLockRollsBack(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()
	seedGoal(t, store.Goals, "g1", "Read", 2, weekStart)
	stop := errors.New("stop")

	err := store.WithinGoalLock(ctx, "g1", func(tx *GoalTx) error {
		require.NoError(t, tx.Completions.Create(ctx, &model.Completion{ID: "c1", GoalID: "g1", CreatedAt: weekStart}))
		return stop
	})
	assert.ErrorIs(t, err, stop)

	count, err := store.Completions.CountInRange(ctx, "g1", weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestWithinGoalLockUnknownGoal(t *testing.T) {
	store := NewStore(testdb.New(t))
	called := false

	err := store.WithinGoalLock(context.Background(), "missing", func(tx *GoalTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.False(t, called)

	// the connection is released after the rollback
	assert.NoError(t, store.Ping(context.Background()))
}

func TestWithinGoalLockPostgresStatements(t *testing.T) {
	db, mock := newMock(t, "pgx")
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "desired_weekly_frequency", "created_at"}).
			AddRow("g1", "Read", 1, weekStart))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM goal_completions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO goal_completions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := store.WithinGoalLock(ctx, "g1", func(tx *GoalTx) error {
		if _, err := tx.Completions.CountInRange(ctx, "g1", weekStart, weekEnd); err != nil {
			return err
		}
		return tx.Completions.Create(ctx, &model.Completion{ID: "c1", GoalID: "g1", CreatedAt: weekStart})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinGoalLockBeginError(t *testing.T) {
	db, mock := newMock(t, "pgx")
	store := NewStore(db)
	boom := errors.New("too many connections")

	mock.ExpectBegin().WillReturnError(boom)

	err := store.WithinGoalLock(context.Background(), "g1", func(tx *GoalTx) error { return nil })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinGoalLockCommitError(t *testing.T) {
	db, mock := newMock(t, "pgx")
	store := NewStore(db)
	boom := errors.New("serialization failure")

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "desired_weekly_frequency", "created_at"}).
			AddRow("g1", "Read", 1, weekStart))
	mock.ExpectCommit().WillReturnError(boom)

	err := store.WithinGoalLock(context.Background(), "g1", func(tx *GoalTx) error { return nil })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
