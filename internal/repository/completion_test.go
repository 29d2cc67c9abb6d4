package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/testdb"
)

func TestCompletionCountInRangeIsInclusive(t *testing.T) {
	conn := testdb.New(t)
	goals := NewGoalRepository(conn)
	completions := NewCompletionRepository(conn)

	seedGoal(t, goals, "g1", "Read", 7, weekStart.AddDate(0, 0, -7))

	seedCompletion(t, completions, "before", "g1", weekStart.Add(-time.Microsecond))
	seedCompletion(t, completions, "at-start", "g1", weekStart)
	seedCompletion(t, completions, "middle", "g1", weekStart.Add(72*time.Hour))
	seedCompletion(t, completions, "at-end", "g1", weekEnd)
	seedCompletion(t, completions, "after", "g1", weekEnd.Add(time.Microsecond))

	count, err := completions.CountInRange(context.Background(), "g1", weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = completions.CountInRange(context.Background(), "other", weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCompletionInRangeNewestFirst(t *testing.T) {
	conn := testdb.New(t)
	goals := NewGoalRepository(conn)
	completions := NewCompletionRepository(conn)

	seedGoal(t, goals, "read", "Read", 3, weekStart)
	seedGoal(t, goals, "run", "Run", 3, weekStart)

	monday := weekStart.AddDate(0, 0, 1).Add(8 * time.Hour)
	seedCompletion(t, completions, "c1", "read", monday)
	seedCompletion(t, completions, "c2", "run", monday.Add(time.Hour))
	seedCompletion(t, completions, "c3", "read", monday.AddDate(0, 0, 2))
	seedCompletion(t, completions, "old", "read", weekStart.AddDate(0, 0, -1))

	got, err := completions.InRange(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "c3", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
	assert.Equal(t, "Run", got[1].Title)
	assert.Equal(t, "run", got[1].GoalID)
	assert.Equal(t, "c1", got[2].ID)
	assert.True(t, monday.Equal(got[2].CompletedAt))
}

func TestCompletionInRangeEmpty(t *testing.T) {
	completions := NewCompletionRepository(testdb.New(t))

	got, err := completions.InRange(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompletionRequiresExistingGoal(t *testing.T) {
	completions := NewCompletionRepository(testdb.New(t))

	err := completions.Create(context.Background(), &model.Completion{ID: "c1", GoalID: "missing", CreatedAt: weekStart})
	assert.Error(t, err)
}

func TestCompletionStorageErrorsPropagate(t *testing.T) {
	db, mock := newMock(t, "sqlmock")
	completions := NewCompletionRepository(db)
	boom := errors.New("disk full")

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM goal_completions`).WillReturnError(boom)
	_, err := completions.CountInRange(context.Background(), "g1", weekStart, weekEnd)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`INNER JOIN goals`).WillReturnError(boom)
	_, err = completions.InRange(context.Background(), weekStart, weekEnd)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`INSERT INTO goal_completions`).WillReturnError(boom)
	err = completions.Create(context.Background(), &model.Completion{ID: "c1", GoalID: "g1", CreatedAt: weekStart})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
