package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemohq/mnemo-api/internal/config"
	"github.com/mnemohq/mnemo-api/internal/service/auth"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenLifetimeHours: 1,
	}
}

func TestJWTServiceRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:          "short",
		TokenLifetimeHours: 1,
	})
	assert.Error(t, err)
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTServiceRejectsWrongKey(t *testing.T) {
	t.Parallel()

	issuer, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)

	verifier, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:          "ffffffffffffffffffffffffffffffff",
		TokenLifetimeHours: 1,
	})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := auth.NewBcryptHasher()

	hashed, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, hasher.Compare(hashed, "correct horse battery staple"))
	assert.Error(t, hasher.Compare(hashed, "wrong password"))
}
