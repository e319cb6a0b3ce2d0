package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)

	token, expiresAt, err := tm.GenerateToken("pat@example.com", auth.Claims{
		Role:       domain.RoleServiceProvider,
		UserID:     "user-1",
		SuperAdmin: false,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", claims.Email())
	assert.Equal(t, domain.RoleServiceProvider, claims.Role)
	assert.Equal(t, "user-1", claims.UserID)
	assert.False(t, claims.Pending)
}

func TestTokenPendingClaims(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)

	token, _, err := tm.GenerateToken("pat@example.com", auth.Claims{
		Role:      domain.RoleServiceProvider,
		RequestID: "req-1",
		Pending:   true,
	})
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Pending)
	assert.Equal(t, "req-1", claims.RequestID)
	assert.Empty(t, claims.UserID)
}

func TestParseTokenRejects(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", time.Minute)
		token, _, err := other.GenerateToken("pat@example.com", auth.Claims{Role: domain.RoleHomeowner})
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := auth.NewTokenManager("test-secret", time.Nanosecond)
		token, _, err := short.GenerateToken("pat@example.com", auth.Claims{Role: domain.RoleHomeowner})
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = short.ParseToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, _, err := tm.GenerateToken("pat@example.com", auth.Claims{Role: domain.RoleHomeowner})
		require.NoError(t, err)

		_, err = tm.ParseToken(token[:len(token)-3] + "xyz")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
