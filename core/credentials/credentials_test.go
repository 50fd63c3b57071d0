package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobster/jobster/core/credentials"
)

func TestHashAndVerify(t *testing.T) {
	h := credentials.Hasher{Cost: 4} // minimum cost to keep the test fast

	digest, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", digest, "digest must not be the plaintext")

	assert.True(t, h.Verify("secret123", digest))
	assert.False(t, h.Verify("secret124", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := credentials.Hasher{Cost: 4}

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two digests of the same password must differ")
	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
}
