package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanLimbu/task-tracker/internal"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "密码123"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			assert.True(t, hasher.Verify(tt.password, hash))
			assert.False(t, hasher.Verify(tt.password+"1", hash))
			assert.False(t, hasher.Verify("", hash))
		})
	}
}

func TestPasswordHasher_UniqueHashes(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash1, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	hash2, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestPasswordHasher_TooLong(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasherWithCost(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	require.Error(t, err)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
}

func TestNewPasswordHasherWithCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBcryptCost, NewPasswordHasherWithCost(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher().cost)
}
