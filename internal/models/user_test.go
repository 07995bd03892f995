package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-api/internal/authz"
)

func TestUserBeforeCreate(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		u := &User{Email: "alice@example.com"}
		require.NoError(t, u.BeforeCreate(nil))

		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, authz.RoleStandard, u.Role)
		assert.False(t, u.CreatedAt.IsZero())
		assert.False(t, u.UpdatedAt.IsZero())
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		id := uuid.New()
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		u := &User{ID: id, Role: authz.RoleAdmin, CreatedAt: created}
		require.NoError(t, u.BeforeCreate(nil))

		assert.Equal(t, id, u.ID)
		assert.Equal(t, authz.RoleAdmin, u.Role)
		assert.Equal(t, created, u.CreatedAt)
	})
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: authz.RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: authz.RoleStandard}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

func TestAuthContext(t *testing.T) {
	u := &User{ID: uuid.New(), Email: "alice@example.com", Role: authz.RoleStandard}
	actx := NewAuthContext(u)

	assert.Equal(t, u.ID, actx.UserID())
	assert.Equal(t, "alice@example.com", actx.UserEmail())
	assert.Equal(t, authz.RoleStandard, actx.UserRole())
	assert.False(t, authz.IsSystem(actx))
	assert.Equal(t, "alice@example.com", authz.Actor(actx))
}

func TestAPIKeyBeforeCreate(t *testing.T) {
	k := &APIKey{UserID: uuid.New(), KeyHash: "digest", Prefix: "ak_abcde"}
	require.NoError(t, k.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, k.ID)
	assert.False(t, k.CreatedAt.IsZero())
}
