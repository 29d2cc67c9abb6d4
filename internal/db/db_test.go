package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memoryDSN = ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite"

func TestInitSQLiteSingleConnection(t *testing.T) {
	db, err := Init("sqlite", memoryDSN)
	require.NoError(t, err)
	defer Close(db)

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	assert.NoError(t, Ping(context.Background(), db))
}

func TestMigrationsUpAndDown(t *testing.T) {
	db, err := Init("sqlite", memoryDSN)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db.DB, "sqlite"))

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO goals (id, title, desired_weekly_frequency, created_at) VALUES ($1, $2, $3, $4)`,
		"g1", "Read", 3, now)
	require.NoError(t, err)

	// frequency is bounded by a CHECK constraint
	_, err = db.Exec(`INSERT INTO goals (id, title, desired_weekly_frequency, created_at) VALUES ($1, $2, $3, $4)`,
		"g2", "Run", 8, now)
	assert.Error(t, err)

	// completions must reference an existing goal
	_, err = db.Exec(`INSERT INTO goal_completions (id, goal_id, created_at) VALUES ($1, $2, $3)`,
		"c1", "missing", now)
	assert.Error(t, err)

	require.NoError(t, MigrateDown(db.DB, "sqlite"))

	_, err = db.Exec(`SELECT count(*) FROM goal_completions`)
	assert.Error(t, err)

	var goals int
	require.NoError(t, db.Get(&goals, `SELECT count(*) FROM goals`))
	assert.Equal(t, 1, goals)
}

func TestRunMigrationsUnknownDriver(t *testing.T) {
	db, err := Init("sqlite", memoryDSN)
	require.NoError(t, err)
	defer Close(db)

	assert.Error(t, RunMigrations(db.DB, "mysql"))
}
