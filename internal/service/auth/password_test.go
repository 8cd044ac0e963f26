package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier()

	t.Run("hash and compare round trip", func(t *testing.T) {
		t.Parallel()

		hashed, err := verifier.Hash("correct horse battery")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", hashed)

		assert.NoError(t, verifier.Compare(hashed, "correct horse battery"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()

		hashed, err := verifier.Hash("correct horse battery")
		require.NoError(t, err)

		assert.Error(t, verifier.Compare(hashed, "wrong password"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		t.Parallel()

		first, err := verifier.Hash("password123")
		require.NoError(t, err)
		second, err := verifier.Hash("password123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("password over bcrypt limit rejected", func(t *testing.T) {
		t.Parallel()

		_, err := verifier.Hash(strings.Repeat("x", 73))
		assert.Error(t, err)
	})
}
