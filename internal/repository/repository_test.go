package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/voyager-trip-planner/internal/database"
	"github.com/iliyamo/voyager-trip-planner/internal/logging"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(),
		database.Options{Driver: database.DriverSQLite, SQLitePath: ":memory:"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func mustCreateUser(t *testing.T, users *UserRepo, name, email string) uint64 {
	t.Helper()
	id, err := users.Create(context.Background(), name, email, "$2a$04$hash")
	require.NoError(t, err)
	return id
}
