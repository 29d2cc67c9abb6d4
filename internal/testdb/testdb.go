// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/goalweek/goalweek/internal/db"
)

const dsn = ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite"

// New returns a fresh database with all migrations applied, closed on test cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	return conn
}
