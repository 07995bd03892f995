package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-api/internal/authz"
	"account-api/internal/pkg/errors"
)

func newAuthFixture() (*fakeUserRepo, AuthService) {
	userRepo := newFakeUserRepo()
	userService := NewUserService(userRepo)
	apiKeyService := NewAPIKeyService(newFakeAPIKeyRepo(), newFakeCache(), "api-secret")
	return userRepo, NewAuthService(userRepo, userService, apiKeyService, "jwt-secret")
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture()

	user, apiKey, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, authz.RoleStandard, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.Contains(t, apiKey, "ak_")

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice@example.com", "other")
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "", "password")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		_, _, err = svc.Register(ctx, "bob@example.com", "")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestAuthService_RegisterRollsBackOnKeyFailure(t *testing.T) {
	ctx := context.Background()

	userRepo := newFakeUserRepo()
	keyRepo := newFakeAPIKeyRepo()
	keyRepo.createErr = errors.ErrDatabaseError
	svc := NewAuthService(userRepo, NewUserService(userRepo), NewAPIKeyService(keyRepo, newFakeCache(), "api-secret"), "jwt-secret")

	user, _, err := svc.Register(ctx, "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, errors.ErrDatabaseError)
	assert.Nil(t, user)

	// The half-created account must not hold the email hostage.
	_, err = userRepo.FindByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	keyRepo.createErr = nil
	_, apiKey, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, apiKey, "ak_")
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture()

	registered, _, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice@example.com", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		user, err := svc.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": registered.ID.String(),
		})
		signed, err := forged.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": registered.ID.String(),
		})
		signed, err := forged.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.VerifyToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
