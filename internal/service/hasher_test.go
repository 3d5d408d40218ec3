package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := hasher.Hash("P@ssw0rd1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
		assert.True(t, hasher.Verify("P@ssw0rd1", hash))
		assert.False(t, hasher.Verify("wrong", hash))
	})

	t.Run("salted", func(t *testing.T) {
		h1, err := hasher.Hash("samepassword1")
		require.NoError(t, err)
		h2, err := hasher.Hash("samepassword1")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, hasher.Verify("password", "not-a-hash"))
	})

	t.Run("uses configured cost", func(t *testing.T) {
		hash, err := NewBcryptHasher(12).Hash("P@ssw0rd1")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 12, cost)
	})

	t.Run("out of range cost falls back", func(t *testing.T) {
		assert.Equal(t, 12, NewBcryptHasher(1).cost)
		assert.Equal(t, 12, NewBcryptHasher(0).cost)

		hash, err := NewBcryptHasher(40).Hash("P@ssw0rd1")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 12, cost)
	})
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("P@ssw0rd1"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("lettersonly"))
	assert.Error(t, ValidatePassword("1234567890"))
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 40)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail("alice"))
	assert.Error(t, ValidateEmail(""))
}
