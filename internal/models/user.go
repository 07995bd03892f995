package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account-api/internal/authz"
)

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role          authz.Role     `gorm:"type:varchar(16);not null;default:standard" json:"role"`
	ExternalID    string         `gorm:"type:varchar(255);index" json:"external_id,omitempty"`
	PasswordHash  string         `gorm:"type:varchar(255)" json:"-"`
	Configuration JSON           `gorm:"type:jsonb" json:"configuration"`
	CreatedBy     string         `gorm:"type:varchar(255);not null" json:"created_by"`
	UpdatedBy     string         `gorm:"type:varchar(255);not null" json:"updated_by"`
	APIKey        *APIKey        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"api_key,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = authz.RoleStandard
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == authz.RoleAdmin
}

// AuthContext adapts a User to the authorization context consumed by
// services and repositories.
type AuthContext struct {
	user *User
}

func NewAuthContext(user *User) *AuthContext {
	return &AuthContext{user: user}
}

func (c *AuthContext) UserID() uuid.UUID {
	return c.user.ID
}

func (c *AuthContext) UserEmail() string {
	return c.user.Email
}

func (c *AuthContext) UserRole() authz.Role {
	return c.user.Role
}
