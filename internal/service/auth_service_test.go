package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/voyager-trip-planner/internal/database"
	"github.com/iliyamo/voyager-trip-planner/internal/logging"
	"github.com/iliyamo/voyager-trip-planner/internal/repository"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.auth.Register(ctx, "  Ann ", "ann@x.io", "password1")
	require.NoError(t, err)
	assert.NotZero(t, id)

	u, err := f.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.NotEqual(t, "password1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ann", "ann@x.io", "password1")

	_, err := f.auth.Register(context.Background(), "Other", "ann@x.io", "password2")
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "email already registered", Message(err))

	// Emails are compared exactly.
	_, err = f.auth.Register(context.Background(), "Other", "Ann@x.io", "password2")
	assert.NoError(t, err)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	db, err := database.Open(context.Background(), database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "race.db"),
	}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db.DB)
	auth := NewAuthService(users, testSecret, 24*time.Hour, bcrypt.MinCost)

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Register(context.Background(), "Ann", "ann@x.io", "password1")
		}(i)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name, user, email, password string
	}{
		{"short password", "Ann", "ann@x.io", "short"},
		{"short password with empty name", "", "ann@x.io", "short"},
		{"short password with bad email", "Ann", "nope", "1234567"},
		{"empty name", "", "ann@x.io", "password1"},
		{"blank name", "   ", "ann@x.io", "password1"},
		{"empty email", "Ann", "", "password1"},
		{"empty password", "Ann", "ann@x.io", ""},
		{"bad email", "Ann", "ann.x.io", "password1"},
		{"password too long for bcrypt", "Ann", "ann@x.io", string(make([]byte, 73))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(context.Background(), tt.user, tt.email, tt.password)
			require.ErrorIs(t, err, ErrValidation)
			assert.NotEmpty(t, Message(err))

			n, err := f.users.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Close())

	_, err := f.auth.Register(context.Background(), "Ann", "ann@x.io", "password1")
	require.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "database error", Message(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "Ann", "ann@x.io", "password1")

	res, err := f.auth.Login(context.Background(), "ann@x.io", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.ExpiresAt.Equal(f.now.Add(24*time.Hour)))
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, "ann@x.io", res.User.Email)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ann", "ann@x.io", "password1")
	ctx := context.Background()

	_, wrongPassword := f.auth.Login(ctx, "ann@x.io", "password2")
	_, unknownEmail := f.auth.Login(ctx, "bob@x.io", "password1")
	_, emptyPassword := f.auth.Login(ctx, "ann@x.io", "")

	for _, err := range []error{wrongPassword, unknownEmail, emptyPassword} {
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "invalid email or password", Message(err))
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "Ann", "ann@x.io", "password1")
	res, err := f.auth.Login(context.Background(), "ann@x.io", "password1")
	require.NoError(t, err)

	who, err := f.auth.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, who.ID)
	assert.Equal(t, "Ann", who.Name)
	assert.Equal(t, "ann@x.io", who.Email)
}

func TestAuthenticateExpiry(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ann", "ann@x.io", "password1")
	issued := f.now
	res, err := f.auth.Login(context.Background(), "ann@x.io", "password1")
	require.NoError(t, err)

	f.now = issued.Add(23*time.Hour + 59*time.Minute)
	_, err = f.auth.Authenticate(context.Background(), res.Token)
	assert.NoError(t, err)

	f.now = issued.Add(24*time.Hour + time.Minute)
	_, err = f.auth.Authenticate(context.Background(), res.Token)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid or expired token", Message(err))
}

func TestAuthenticateRejections(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "Ann", "ann@x.io", "password1")
	res, err := f.auth.Login(context.Background(), "ann@x.io", "password1")
	require.NoError(t, err)

	other := NewAuthService(f.users, "another-secret", 24*time.Hour, bcrypt.MinCost).
		WithClock(func() time.Time { return f.now })
	_, err = other.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized, "foreign secret")

	for name, raw := range map[string]string{
		"absent":    "",
		"blank":     "   ",
		"malformed": "not.a.token",
		"tampered":  res.Token + "x",
	} {
		_, err := f.auth.Authenticate(context.Background(), raw)
		require.ErrorIs(t, err, ErrUnauthorized, name)
		assert.Equal(t, "invalid or expired token", Message(err), name)
	}

	require.NoError(t, f.users.Delete(context.Background(), id))
	_, err = f.auth.Authenticate(context.Background(), res.Token)
	require.ErrorIs(t, err, ErrUnauthorized, "orphaned")
	assert.Equal(t, "invalid or expired token", Message(err))
}
