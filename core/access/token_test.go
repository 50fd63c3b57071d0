package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobster/jobster/core/access"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := access.Tokens{Secret: []byte("unit-test-secret")}

	tokenString, err := tokens.Issue("hacker17")
	require.NoError(t, err)

	username, err := tokens.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "hacker17", username)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := access.Tokens{Secret: []byte("unit-test-secret")}

	_, err := tokens.Verify("")
	assert.Error(t, err, "empty token must not verify")

	_, err = tokens.Verify("not.a.token")
	assert.Error(t, err, "malformed token must not verify")

	other := access.Tokens{Secret: []byte("a-different-secret")}
	tokenString, err := other.Issue("hacker17")
	require.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.Error(t, err, "token signed with another secret must not verify")
}
