package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Str0ng!pwd")
	require.NoError(t, err)
	require.NotEqual(t, "Str0ng!pwd", hash)

	require.True(t, h.Verify("Str0ng!pwd", hash))
	require.False(t, h.Verify("wrong", hash))
	require.False(t, h.Verify("", hash))
	require.False(t, h.Verify("Str0ng!pwd", ""))
}

func TestHasher_CostApplied(t *testing.T) {
	h := NewHasher(5)
	hash, err := h.Hash("secret-1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 5, cost)
}

func TestNewHasher_Defaults(t *testing.T) {
	require.Equal(t, DefaultCost, NewHasher(0).Cost())
	require.Equal(t, bcrypt.MinCost, NewHasher(1).Cost())
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost())
}

func TestHasher_EmptyPassword(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost).Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}
