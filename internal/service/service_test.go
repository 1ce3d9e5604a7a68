package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/voyager-trip-planner/internal/database"
	"github.com/iliyamo/voyager-trip-planner/internal/logging"
	"github.com/iliyamo/voyager-trip-planner/internal/repository"
)

const testSecret = "test-secret"

type fixture struct {
	db    *database.DB
	users *repository.UserRepo
	trips *repository.TripRepo
	auth  *AuthService
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(context.Background(),
		database.Options{Driver: database.DriverSQLite, SQLitePath: ":memory:"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:    db,
		users: repository.NewUserRepo(db.DB),
		trips: repository.NewTripRepo(db.DB),
		now:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.auth = NewAuthService(f.users, testSecret, 24*time.Hour, bcrypt.MinCost).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) register(t *testing.T, name, email, password string) uint64 {
	t.Helper()
	id, err := f.auth.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return id
}
