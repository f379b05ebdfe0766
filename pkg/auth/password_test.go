package auth_test

import (
	"strings"
	"testing"

	"modulith/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"), "expected PHC argon2id format, got %q", encoded)

	ok, err := auth.VerifyPassword("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := auth.HashPassword("same password")
	require.NoError(t, err)
	second, err := auth.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must use a fresh salt")
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := auth.VerifyPassword("anything", "not-a-phc-string")
	require.Error(t, err)
}
