// Package authz defines the authorization context shared by the service and
// repository layers. A nil Context marks a system operation: permission checks
// and query scoping are both skipped for it.
package authz

import "github.com/google/uuid"

type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// Context carries the minimum caller information needed for authorization
// decisions. Concrete implementations adapt domain models to this interface.
type Context interface {
	UserID() uuid.UUID
	UserEmail() string
	UserRole() Role
}

// IsSystem reports whether the given context denotes a system operation.
func IsSystem(actx Context) bool {
	return actx == nil
}

// Actor returns the attribution string recorded on writes: the caller's email
// for user operations, "system" otherwise.
func Actor(actx Context) string {
	if actx == nil {
		return "system"
	}
	return actx.UserEmail()
}
