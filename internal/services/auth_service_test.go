package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_PasswordRoundTrip(t *testing.T) {
	auth := NewAuthService()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestAuthService_NewRefreshToken(t *testing.T) {
	auth := NewAuthService()

	a, err := auth.NewRefreshToken()
	require.NoError(t, err)
	b, err := auth.NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 2*refreshTokenBytes, "hex-encoded")
	assert.NotEqual(t, a, b)
}
