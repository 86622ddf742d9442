package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, h.Cost())

	_, err = NewPasswordHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)

	_, err = NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestPasswordHasher_HashIsSaltedAndVerifiable(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	first, err := h.Hash("admin123")
	require.NoError(t, err)
	second, err := h.Hash("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "admin123", first)
	assert.True(t, h.Verify("admin123", first))
	assert.True(t, h.Verify("admin123", second))
	assert.False(t, h.Verify("wrong", first))
}

func TestPasswordHasher_VerifyRejectsMalformedDigest(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, h.Verify("admin123", "admin123"))
	assert.False(t, h.Verify("admin123", ""))
}

func TestPasswordHasher_DigestCarriesCost(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)

	digest, err := h.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}
