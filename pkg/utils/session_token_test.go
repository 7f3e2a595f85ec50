package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := SignToken(42, "ravi")
	require.NoError(t, err)

	uid, username, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
	assert.Equal(t, "ravi", username)
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	token, err := SignToken(1, "ravi")
	require.NoError(t, err)

	t.Setenv("SESSION_SECRET", "different-secret")
	_, _, err = ParseToken(token)
	assert.Error(t, err)
}

func TestSignTokenRequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := SignToken(1, "ravi")
	assert.Error(t, err)
}
