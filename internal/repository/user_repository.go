package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account-api/internal/authz"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
)

// UserFilters adds the user specific filter fields on top of the common
// list parameters.
type UserFilters struct {
	Filters
	Email      string
	Role       authz.Role
	ExternalID string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error)
	GetAll(ctx context.Context, actx authz.Context, f UserFilters) ([]models.User, error)
	GetPaginated(ctx context.Context, actx authz.Context, f UserFilters) (int64, []models.User, error)
	GetIDs(ctx context.Context, actx authz.Context, f UserFilters) ([]uuid.UUID, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

type userRepository struct {
	Base[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	base := NewBase[models.User](db, UserScope{})
	base.orderable = map[string]struct{}{
		"email":      {},
		"role":       {},
		"created_at": {},
		"updated_at": {},
	}
	base.search = func(tx *gorm.DB, term string) *gorm.DB {
		return tx.Where("email ILIKE ?", "%"+term+"%")
	}
	return &userRepository{Base: base}
}

func (r *userRepository) userQuery(ctx context.Context, actx authz.Context, f UserFilters) *gorm.DB {
	tx := r.listQuery(ctx, actx, f.Filters)
	if f.Email != "" {
		tx = tx.Where("email = ?", f.Email)
	}
	if f.Role != "" {
		tx = tx.Where("role = ?", f.Role)
	}
	if f.ExternalID != "" {
		tx = tx.Where("external_id = ?", f.ExternalID)
	}
	return tx
}

// GetAll loads the API key association alongside each user so callers can
// inspect key state without a second lookup.
func (r *userRepository) GetAll(ctx context.Context, actx authz.Context, f UserFilters) ([]models.User, error) {
	var users []models.User
	tx := r.applyOrdering(r.userQuery(ctx, actx, f), f.OrderBy).Preload("APIKey")
	if err := tx.Find(&users).Error; err != nil {
		return nil, errors.WrapDB(err, "failed to list users")
	}
	return users, nil
}

func (r *userRepository) GetPaginated(ctx context.Context, actx authz.Context, f UserFilters) (int64, []models.User, error) {
	f.Filters = f.Filters.Normalized()

	var total int64
	if err := r.userQuery(ctx, actx, f).Count(&total).Error; err != nil {
		return 0, nil, errors.WrapDB(err, "failed to count users")
	}

	var users []models.User
	tx := r.applyOrdering(r.userQuery(ctx, actx, f), f.OrderBy)
	if err := tx.Limit(f.Limit).Offset(f.Offset).Find(&users).Error; err != nil {
		return 0, nil, errors.WrapDB(err, "failed to list users")
	}

	return total, users, nil
}

func (r *userRepository) GetIDs(ctx context.Context, actx authz.Context, f UserFilters) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.userQuery(ctx, actx, f).Pluck("id", &ids).Error; err != nil {
		return nil, errors.WrapDB(err, "failed to list user ids")
	}
	return ids, nil
}

// FindByEmail is an unscoped lookup used by authentication paths.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapDB(result.Error, "failed to get user by email")
	}

	return &user, nil
}

// FindByExternalID is an unscoped lookup used by identity webhook sync.
func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "external_id = ?", externalID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapDB(result.Error, "failed to get user by external id")
	}

	return &user, nil
}
