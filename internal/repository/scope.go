package repository

import (
	"gorm.io/gorm"

	"account-api/internal/authz"
)

// ScopeStrategy narrows a query to the rows visible to the calling user.
// Strategies only decide HOW to scope; the repository decides IF, by skipping
// the strategy entirely for system operations.
type ScopeStrategy interface {
	Apply(tx *gorm.DB, actx authz.Context) *gorm.DB
}

// UserScope leaves user queries unrestricted: users are globally visible to
// every authenticated caller.
type UserScope struct{}

func (UserScope) Apply(tx *gorm.DB, actx authz.Context) *gorm.DB {
	return tx
}

// APIKeyScope restricts API key queries to rows owned by the caller.
type APIKeyScope struct{}

func (APIKeyScope) Apply(tx *gorm.DB, actx authz.Context) *gorm.DB {
	return tx.Where("user_id = ?", actx.UserID())
}
