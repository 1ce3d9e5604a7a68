package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordIsSaltedAndVerifies(t *testing.T) {
	h1, err := HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "password1", h1)
	assert.NotEqual(t, h1, h2, "two hashes of the same password should differ by salt")
	assert.True(t, VerifyPassword(h1, "password1"))
	assert.True(t, VerifyPassword(h2, "password1"))
	assert.False(t, VerifyPassword(h1, "password2"))
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "password1"))
	assert.False(t, VerifyPassword("", ""))
}

func TestHashPasswordTooLong(t *testing.T) {
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long), bcrypt.MinCost)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
