package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashNeverEqualsPlaintext(t *testing.T) {
	hasher := NewHasher(4)
	hashed, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hashed)

	again, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salting must produce distinct hashes")
}

func TestVerifyMatch(t *testing.T) {
	hasher := NewHasher(4)
	hashed, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)

	ok, err := hasher.Verify("Abcdef1!", hashed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyMismatchIsNotAnError(t *testing.T) {
	hasher := NewHasher(4)
	hashed, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)

	ok, err := hasher.Verify("wrong-password", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyCorruptHashSurfacesError(t *testing.T) {
	hasher := NewHasher(4)
	ok, err := hasher.Verify("Abcdef1!", "not-a-bcrypt-hash")
	assert.False(t, ok)
	require.Error(t, err, "corrupt stored hash must be distinguishable from a wrong password")
}

func TestHasherCostFallback(t *testing.T) {
	hasher := NewHasher(99)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)

	hasher = NewHasher(0)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)
}
