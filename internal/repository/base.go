package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account-api/internal/authz"
	"account-api/internal/pkg/errors"
)

// Base provides the generic CRUD operations shared by all repositories.
// Every read goes through applyScope: user operations are filtered by the
// repository's scope strategy, system operations (nil authz.Context) are not.
type Base[T any] struct {
	db        *gorm.DB
	scope     ScopeStrategy
	orderable map[string]struct{}
	search    func(tx *gorm.DB, term string) *gorm.DB
}

func NewBase[T any](db *gorm.DB, scope ScopeStrategy) Base[T] {
	return Base[T]{db: db, scope: scope}
}

func (b *Base[T]) applyScope(tx *gorm.DB, actx authz.Context) *gorm.DB {
	if authz.IsSystem(actx) {
		return tx
	}
	return b.scope.Apply(tx, actx)
}

func (b *Base[T]) applyOrdering(tx *gorm.DB, orderBy string) *gorm.DB {
	if orderBy == "" {
		return tx
	}

	desc := strings.HasPrefix(orderBy, "-")
	field := strings.TrimLeft(orderBy, "-+")

	// Unknown fields are ignored rather than rejected.
	if _, ok := b.orderable[field]; !ok {
		return tx
	}

	if desc {
		return tx.Order(field + " DESC")
	}
	return tx.Order(field + " ASC")
}

func (b *Base[T]) listQuery(ctx context.Context, actx authz.Context, f Filters) *gorm.DB {
	tx := b.db.WithContext(ctx).Model(new(T))
	tx = b.applyScope(tx, actx)

	if f.Search != "" && b.search != nil {
		tx = b.search(tx, f.Search)
	}
	if len(f.IDs) > 0 {
		tx = tx.Where("id IN ?", f.IDs)
	}

	return tx
}

// GetByID fetches a single entity. Rows outside the caller's scope are
// indistinguishable from missing rows.
func (b *Base[T]) GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*T, error) {
	var entity T
	tx := b.applyScope(b.db.WithContext(ctx), actx)
	result := tx.First(&entity, "id = ?", id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapDB(result.Error, "failed to get entity by ID")
	}

	return &entity, nil
}

// GetAll returns every entity matching the filters, without pagination.
func (b *Base[T]) GetAll(ctx context.Context, actx authz.Context, f Filters) ([]T, error) {
	var entities []T
	tx := b.applyOrdering(b.listQuery(ctx, actx, f), f.OrderBy)

	if err := tx.Find(&entities).Error; err != nil {
		return nil, errors.WrapDB(err, "failed to list entities")
	}
	return entities, nil
}

// GetPaginated returns the total count alongside one page of entities.
func (b *Base[T]) GetPaginated(ctx context.Context, actx authz.Context, f Filters) (int64, []T, error) {
	f = f.Normalized()

	var total int64
	if err := b.listQuery(ctx, actx, f).Count(&total).Error; err != nil {
		return 0, nil, errors.WrapDB(err, "failed to count entities")
	}

	var entities []T
	tx := b.applyOrdering(b.listQuery(ctx, actx, f), f.OrderBy)
	if err := tx.Limit(f.Limit).Offset(f.Offset).Find(&entities).Error; err != nil {
		return 0, nil, errors.WrapDB(err, "failed to list entities")
	}

	return total, entities, nil
}

// GetIDs returns only the ids of matching entities.
func (b *Base[T]) GetIDs(ctx context.Context, actx authz.Context, f Filters) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := b.listQuery(ctx, actx, f).Pluck("id", &ids).Error; err != nil {
		return nil, errors.WrapDB(err, "failed to list entity ids")
	}
	return ids, nil
}

func (b *Base[T]) Create(ctx context.Context, entity *T) error {
	result := b.db.WithContext(ctx).Create(entity)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.ErrAlreadyExists
		}
		return errors.WrapDB(result.Error, "failed to create entity")
	}
	return nil
}

func (b *Base[T]) Update(ctx context.Context, entity *T) error {
	result := b.db.WithContext(ctx).Save(entity)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.ErrAlreadyExists
		}
		return errors.WrapDB(result.Error, "failed to update entity")
	}
	return nil
}

func (b *Base[T]) Delete(ctx context.Context, entity *T) error {
	result := b.db.WithContext(ctx).Delete(entity)
	if result.Error != nil {
		return errors.WrapDB(result.Error, "failed to delete entity")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (b *Base[T]) BulkCreate(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	if err := b.db.WithContext(ctx).Create(&entities).Error; err != nil {
		return errors.WrapDB(err, "failed to bulk create entities")
	}
	return nil
}

// BulkUpdate persists every entity in one statement. Entities must carry
// their primary keys.
func (b *Base[T]) BulkUpdate(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	result := b.db.WithContext(ctx).Save(&entities)
	if result.Error != nil {
		if result.Error == gorm.ErrDuplicatedKey {
			return errors.ErrAlreadyExists
		}
		return errors.WrapDB(result.Error, "failed to bulk update entities")
	}
	return nil
}

func (b *Base[T]) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := b.db.WithContext(ctx).Delete(new(T), "id IN ?", ids)
	if result.Error != nil {
		return 0, errors.WrapDB(result.Error, "failed to bulk delete entities")
	}
	return result.RowsAffected, nil
}
