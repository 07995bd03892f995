package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"account-api/internal/authz"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
)

func newID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errors.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = authz.RoleStandard
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetAll(ctx context.Context, actx authz.Context, f repository.UserFilters) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetPaginated(ctx context.Context, actx authz.Context, f repository.UserFilters) (int64, []models.User, error) {
	users, err := r.GetAll(ctx, actx, f)
	if err != nil {
		return 0, nil, err
	}
	total := int64(len(users))
	f.Filters = f.Filters.Normalized()
	if f.Offset >= len(users) {
		return total, nil, nil
	}
	users = users[f.Offset:]
	if len(users) > f.Limit {
		users = users[:f.Limit]
	}
	return total, users, nil
}

func (r *fakeUserRepo) GetIDs(ctx context.Context, actx authz.Context, f repository.UserFilters) ([]uuid.UUID, error) {
	users, err := r.GetAll(ctx, actx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.ErrNotFound
	}
	delete(r.users, user.ID)
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalID == externalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

// fakeAPIKeyRepo is an in-memory APIKeyRepository.
type fakeAPIKeyRepo struct {
	mu        sync.Mutex
	keys      map[uuid.UUID]*models.APIKey
	createErr error
	touchErr  error
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: make(map[uuid.UUID]*models.APIKey)}
}

func (r *fakeAPIKeyRepo) Create(ctx context.Context, apiKey *models.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, k := range r.keys {
		if k.UserID == apiKey.UserID || k.KeyHash == apiKey.KeyHash {
			return errors.ErrAlreadyExists
		}
	}
	if apiKey.ID == uuid.Nil {
		apiKey.ID = uuid.New()
	}
	copied := *apiKey
	r.keys[apiKey.ID] = &copied
	return nil
}

func (r *fakeAPIKeyRepo) GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.UserID == userID {
			copied := *k
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeAPIKeyRepo) GetByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.KeyHash == keyHash {
			copied := *k
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeAPIKeyRepo) Delete(ctx context.Context, apiKey *models.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[apiKey.ID]; !ok {
		return errors.ErrNotFound
	}
	delete(r.keys, apiKey.ID)
	return nil
}

func (r *fakeAPIKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	k, ok := r.keys[id]
	if !ok {
		return errors.ErrNotFound
	}
	now := time.Now()
	k.LastUsedAt = &now
	return nil
}

func (r *fakeAPIKeyRepo) ListStale(ctx context.Context, cutoff time.Time) ([]models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.APIKey
	for _, k := range r.keys {
		if k.LastUsedAt == nil && k.CreatedAt.Before(cutoff) {
			out = append(out, *k)
		} else if k.LastUsedAt != nil && k.LastUsedAt.Before(cutoff) {
			out = append(out, *k)
		}
	}
	return out, nil
}

// fakeCache is an in-memory CacheService recording sets and deletes.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return "", errors.ErrCacheError
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = string(data)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes = append(c.deletes, key)
	return nil
}
