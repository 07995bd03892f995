package services

import (
	"context"

	"account-api/internal/authz"
	"account-api/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// WithUserContext stores the authenticated user on the request context.
func WithUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// AuthContextFromContext returns the authorization context for the
// authenticated user, or nil when no user is present.
func AuthContextFromContext(ctx context.Context) authz.Context {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil
	}
	return models.NewAuthContext(user)
}
