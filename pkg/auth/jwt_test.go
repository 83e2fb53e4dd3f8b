package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *TokenService {
	return NewTokenService(Config{
		Secret:             "access-secret",
		RefreshSecret:      "refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	accountID := uuid.New()

	token, err := svc.GenerateAccessToken(accountID, "a@example.com", "patient")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "patient", claims.Role)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.GenerateRefreshToken(uuid.New(), "a@example.com", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	require.Error(t, err)

	_, err = svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateAccessToken("not.a.token")
	require.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	other := NewTokenService(Config{Secret: "different-secret", ExpiryHours: 1})

	token, err := other.GenerateAccessToken(uuid.New(), "a@example.com", "patient")
	require.NoError(t, err)

	_, err = newTestService().ValidateAccessToken(token)
	require.Error(t, err)
}
