package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "front@hotel.test", "receptionist")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "receptionist", claims.Role)
	assert.Equal(t, "front@hotel.test", claims.Email)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour, time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "a@hotel.test", "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "a@hotel.test", "staff")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_RejectsRefreshAsAccess(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)

	token, err := m.GenerateRefreshToken(uuid.New(), "a@hotel.test", "staff")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
