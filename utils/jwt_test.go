package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 7, 1, "waiter", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StaffID)
	assert.Equal(t, uint(1), claims.RestaurantID)
	assert.Equal(t, "waiter", claims.Role)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := GenerateToken(secret, 7, 1, "waiter", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	other, err := GenerateToken([]byte("other"), 7, 1, "waiter", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(secret, other)
	assert.Error(t, err)

	_, err = ParseToken(secret, "not-a-token")
	assert.Error(t, err)
}
