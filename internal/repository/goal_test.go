package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/testdb"
)

var (
	weekStart = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	weekEnd   = weekStart.AddDate(0, 0, 7).Add(-time.Microsecond)
)

func seedGoal(t *testing.T, repo GoalRepository, id, title string, freq int, createdAt time.Time) *model.Goal {
	t.Helper()
	goal := &model.Goal{ID: id, Title: title, DesiredWeeklyFrequency: freq, CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), goal))
	return goal
}

func seedCompletion(t *testing.T, repo CompletionRepository, id, goalID string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.Completion{ID: id, GoalID: goalID, CreatedAt: at}))
}

func TestGoalCreateAndByID(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(testdb.New(t))

	createdAt := time.Date(2024, 6, 3, 9, 30, 15, 123456000, time.UTC)
	seedGoal(t, repo, "g1", "Read", 3, createdAt)

	goal, err := repo.ByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Read", goal.Title)
	assert.Equal(t, 3, goal.DesiredWeeklyFrequency)
	assert.True(t, createdAt.Equal(goal.CreatedAt), "created_at round trip: %s", goal.CreatedAt)

	locked, err := repo.ByIDForUpdate(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, goal.ID, locked.ID)
}

func TestGoalByIDNotFound(t *testing.T) {
	repo := NewGoalRepository(testdb.New(t))

	_, err := repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	_, err = repo.ByIDForUpdate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalCreatedBefore(t *testing.T) {
	repo := NewGoalRepository(testdb.New(t))

	seedGoal(t, repo, "early", "Early", 1, weekStart.AddDate(0, 0, -3))
	seedGoal(t, repo, "edge", "Edge", 1, weekEnd)
	seedGoal(t, repo, "late", "Late", 1, weekEnd.Add(time.Microsecond))

	goals, err := repo.CreatedBefore(context.Background(), weekEnd)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "early", goals[0].ID)
	assert.Equal(t, "edge", goals[1].ID)
}

func TestGoalPending(t *testing.T) {
	conn := testdb.New(t)
	goals := NewGoalRepository(conn)
	completions := NewCompletionRepository(conn)

	seedGoal(t, goals, "a", "Read", 2, weekStart.AddDate(0, 0, -10))
	seedGoal(t, goals, "b", "Run", 3, weekStart.Add(time.Hour))
	seedGoal(t, goals, "future", "Swim", 1, weekEnd.Add(time.Second))

	seedCompletion(t, completions, "c-last-week", "a", weekStart.Add(-time.Second))
	seedCompletion(t, completions, "c-this-week", "a", weekStart.Add(48*time.Hour))

	pending, err := goals.Pending(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, model.PendingGoal{ID: "a", Title: "Read", DesiredWeeklyFrequency: 2, CompletionCount: 1}, *pending[0])
	assert.Equal(t, model.PendingGoal{ID: "b", Title: "Run", DesiredWeeklyFrequency: 3, CompletionCount: 0}, *pending[1])
}

func TestGoalPendingEmpty(t *testing.T) {
	repo := NewGoalRepository(testdb.New(t))

	pending, err := repo.Pending(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)
}

func TestGoalTotalFrequency(t *testing.T) {
	repo := NewGoalRepository(testdb.New(t))
	ctx := context.Background()

	total, err := repo.TotalFrequency(ctx, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	seedGoal(t, repo, "a", "Read", 2, weekStart)
	seedGoal(t, repo, "b", "Run", 5, weekEnd)
	seedGoal(t, repo, "c", "Swim", 7, weekEnd.AddDate(0, 0, 1))

	total, err = repo.TotalFrequency(ctx, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func newMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, driver), mock
}

func TestGoalByIDForUpdateLocksRowOnPostgres(t *testing.T) {
	db, mock := newMock(t, "pgx")
	repo := NewGoalRepository(db)

	mock.ExpectQuery(`SELECT id, title, desired_weekly_frequency, created_at FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "desired_weekly_frequency", "created_at"}).
			AddRow("g1", "Read", 3, weekStart))

	goal, err := repo.ByIDForUpdate(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", goal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalStorageErrorsPropagate(t *testing.T) {
	db, mock := newMock(t, "sqlmock")
	repo := NewGoalRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`WITH completion_counts`).WillReturnError(boom)
	_, err := repo.Pending(context.Background(), weekStart, weekEnd)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`SUM\(desired_weekly_frequency\)`).WillReturnError(boom)
	_, err = repo.TotalFrequency(context.Background(), weekEnd)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`INSERT INTO goals`).WillReturnError(boom)
	err = repo.Create(context.Background(), &model.Goal{ID: "g1", Title: "Read", DesiredWeeklyFrequency: 1})
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`FROM goals WHERE id`).WillReturnError(boom)
	_, err = repo.ByID(context.Background(), "g1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrGoalNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
