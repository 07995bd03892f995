package services

import (
	"context"

	"github.com/google/uuid"

	"account-api/internal/authz"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
)

// Actions checked by the permission layer.
const (
	ActionRead   = "read"
	ActionList   = "list"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type CreateUserInput struct {
	Email        string
	Role         authz.Role
	ExternalID   string
	PasswordHash string
}

type UpdateUserInput struct {
	Email         *string
	Role          *authz.Role
	Configuration *models.JSON
}

// UserService enforces the permission checks of the two-layer authorization
// convention. Every method takes an authz.Context; nil marks a system
// operation that bypasses both permission checks and repository scoping.
type UserService interface {
	GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, actx authz.Context, email string) (*models.User, error)
	GetByExternalID(ctx context.Context, actx authz.Context, externalID string) (*models.User, error)
	List(ctx context.Context, actx authz.Context, f repository.UserFilters) (int64, []models.User, error)
	ListAll(ctx context.Context, actx authz.Context, f repository.UserFilters) ([]models.User, error)
	Create(ctx context.Context, actx authz.Context, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actx authz.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, actx authz.Context, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// checkGeneralPermissions gates actions before any row is touched. Admins may
// do everything; standard users may read and update (instance checks decide
// which rows); system operations bypass the check entirely.
func (s *userService) checkGeneralPermissions(actx authz.Context, action string) error {
	if authz.IsSystem(actx) {
		return nil
	}
	if actx.UserRole() == authz.RoleAdmin {
		return nil
	}
	if action == ActionRead || action == ActionUpdate {
		return nil
	}
	return errors.ErrPermissionDenied
}

// checkInstancePermissions gates actions against a concrete row. Nobody may
// delete themselves, admins included.
func (s *userService) checkInstancePermissions(actx authz.Context, action string, user *models.User) error {
	if authz.IsSystem(actx) {
		return nil
	}
	if action == ActionDelete && actx.UserID() == user.ID {
		return errors.ErrPermissionDenied
	}
	if actx.UserRole() == authz.RoleAdmin {
		return nil
	}
	if (action == ActionRead || action == ActionUpdate) && actx.UserID() == user.ID {
		return nil
	}
	return errors.ErrPermissionDenied
}

func (s *userService) GetByID(ctx context.Context, actx authz.Context, id uuid.UUID) (*models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, actx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkInstancePermissions(actx, ActionRead, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, actx authz.Context, email string) (*models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.checkInstancePermissions(actx, ActionRead, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByExternalID(ctx context.Context, actx authz.Context, externalID string) (*models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if err := s.checkInstancePermissions(actx, ActionRead, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actx authz.Context, f repository.UserFilters) (int64, []models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionList); err != nil {
		return 0, nil, err
	}
	return s.userRepo.GetPaginated(ctx, actx, f)
}

func (s *userService) ListAll(ctx context.Context, actx authz.Context, f repository.UserFilters) ([]models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionList); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll(ctx, actx, f)
}

func (s *userService) Create(ctx context.Context, actx authz.Context, input CreateUserInput) (*models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionCreate); err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, errors.ErrInvalidInput
	}

	role := input.Role
	if role == "" {
		role = authz.RoleStandard
	}
	if !role.Valid() {
		return nil, errors.ErrInvalidInput
	}

	actor := authz.Actor(actx)
	user := &models.User{
		Email:        input.Email,
		Role:         role,
		ExternalID:   input.ExternalID,
		PasswordHash: input.PasswordHash,
		CreatedBy:    actor,
		UpdatedBy:    actor,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actx authz.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if err := s.checkGeneralPermissions(actx, ActionUpdate); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, actx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkInstancePermissions(actx, ActionUpdate, user); err != nil {
		return nil, err
	}

	if input.Email != nil {
		if *input.Email == "" {
			return nil, errors.ErrInvalidInput
		}
		user.Email = *input.Email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, errors.ErrInvalidInput
		}
		// Role changes are reserved for admins and system operations, so a
		// standard user cannot promote themselves through a self-update.
		if !authz.IsSystem(actx) && actx.UserRole() != authz.RoleAdmin {
			return nil, errors.ErrPermissionDenied
		}
		user.Role = *input.Role
	}
	if input.Configuration != nil {
		user.Configuration = *input.Configuration
	}
	user.UpdatedBy = authz.Actor(actx)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actx authz.Context, id uuid.UUID) error {
	if err := s.checkGeneralPermissions(actx, ActionDelete); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, actx, id)
	if err != nil {
		return err
	}

	if err := s.checkInstancePermissions(actx, ActionDelete, user); err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, user)
}
