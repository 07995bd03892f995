package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"account-api/internal/authz"
	"account-api/internal/models"
	"account-api/internal/repository"
	"account-api/internal/services"
)

// Function-field fakes so each test overrides only what it needs.

type fakeUserService struct {
	getByID func(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error)
	list    func(ctx context.Context, actx authz.Context, f repository.UserFilters) (int64, []models.User, error)
	create  func(ctx context.Context, actx authz.Context, input services.CreateUserInput) (*models.User, error)
	update  func(ctx context.Context, actx authz.Context, id uuid.UUID, input services.UpdateUserInput) (*models.User, error)
	delete  func(ctx context.Context, actx authz.Context, id uuid.UUID) error
}

func (f *fakeUserService) GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error) {
	return f.getByID(ctx, actx, id)
}

func (f *fakeUserService) GetByEmail(ctx context.Context, actx authz.Context, email string) (*models.User, error) {
	panic("not expected")
}

func (f *fakeUserService) GetByExternalID(ctx context.Context, actx authz.Context, externalID string) (*models.User, error) {
	panic("not expected")
}

func (f *fakeUserService) List(ctx context.Context, actx authz.Context, filters repository.UserFilters) (int64, []models.User, error) {
	return f.list(ctx, actx, filters)
}

func (f *fakeUserService) ListAll(ctx context.Context, actx authz.Context, filters repository.UserFilters) ([]models.User, error) {
	panic("not expected")
}

func (f *fakeUserService) Create(ctx context.Context, actx authz.Context, input services.CreateUserInput) (*models.User, error) {
	return f.create(ctx, actx, input)
}

func (f *fakeUserService) Update(ctx context.Context, actx authz.Context, id uuid.UUID, input services.UpdateUserInput) (*models.User, error) {
	return f.update(ctx, actx, id, input)
}

func (f *fakeUserService) Delete(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	return f.delete(ctx, actx, id)
}

type fakeAuthService struct {
	register func(ctx context.Context, email, password string) (*models.User, string, error)
	login    func(ctx context.Context, email, password string) (string, error)
	verify   func(ctx context.Context, token string) (*models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.register(ctx, email, password)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	return f.verify(ctx, token)
}

type fakeAPIKeyService struct {
	generate     func(ctx context.Context, user *models.User) (string, error)
	revoke       func(ctx context.Context, user *models.User) error
	authenticate func(ctx context.Context, plaintext string) (*models.User, error)
}

func (f *fakeAPIKeyService) GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error) {
	panic("not expected")
}

func (f *fakeAPIKeyService) Generate(ctx context.Context, user *models.User) (string, error) {
	return f.generate(ctx, user)
}

func (f *fakeAPIKeyService) Revoke(ctx context.Context, user *models.User) error {
	return f.revoke(ctx, user)
}

func (f *fakeAPIKeyService) Authenticate(ctx context.Context, plaintext string) (*models.User, error) {
	return f.authenticate(ctx, plaintext)
}

func (f *fakeAPIKeyService) StaleKeys(ctx context.Context, actx authz.Context, cutoff time.Time) ([]models.APIKey, error) {
	panic("not expected")
}

func (f *fakeAPIKeyService) HashKey(plaintext string) string { return plaintext }

func (f *fakeAPIKeyService) VerifyKey(plaintext, keyHash string) bool { return plaintext == keyHash }

type fakeIdentityService struct {
	handle func(ctx context.Context, eventType string, event services.IdentityEvent) error
}

func (f *fakeIdentityService) HandleEvent(ctx context.Context, eventType string, event services.IdentityEvent) error {
	return f.handle(ctx, eventType, event)
}
