package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account-api/internal/authz"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
)

type APIKeyRepository interface {
	Create(ctx context.Context, apiKey *models.APIKey) error
	GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error)
	GetByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error)
	Delete(ctx context.Context, apiKey *models.APIKey) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
	ListStale(ctx context.Context, cutoff time.Time) ([]models.APIKey, error)
}

type apiKeyRepository struct {
	Base[models.APIKey]
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{Base: NewBase[models.APIKey](db, APIKeyScope{})}
}

func (r *apiKeyRepository) GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error) {
	var apiKey models.APIKey
	tx := r.applyScope(r.db.WithContext(ctx).Preload("User"), actx)
	result := tx.First(&apiKey, "user_id = ?", userID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapDB(result.Error, "failed to get API key by user ID")
	}

	return &apiKey, nil
}

// GetByKeyHash is an unscoped lookup used by the authentication path, before
// any caller identity exists.
func (r *apiKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var apiKey models.APIKey
	result := r.db.WithContext(ctx).Preload("User").First(&apiKey, "key_hash = ?", keyHash)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapDB(result.Error, "failed to get API key by hash")
	}

	return &apiKey, nil
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_used_at": time.Now(),
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return errors.WrapDB(result.Error, "failed to touch API key")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// ListStale returns keys that have never been used since before the cutoff.
func (r *apiKeyRepository) ListStale(ctx context.Context, cutoff time.Time) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.WithContext(ctx).Preload("User").
		Where("last_used_at IS NULL AND created_at < ?", cutoff).
		Or("last_used_at < ?", cutoff).
		Find(&keys).Error
	if err != nil {
		return nil, errors.WrapDB(err, "failed to list stale API keys")
	}
	return keys, nil
}
