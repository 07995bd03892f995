package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"account-api/internal/logger"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
)

// Identity webhook event types.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is the payload of an identity-provider webhook event.
type IdentityEvent struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityService synchronizes users with an external identity provider.
// All operations run in system mode: webhooks carry no caller context.
type IdentityService interface {
	HandleEvent(ctx context.Context, eventType string, event IdentityEvent) error
}

type identityService struct {
	userService UserService
}

func NewIdentityService(userService UserService) IdentityService {
	return &identityService{userService: userService}
}

func (s *identityService) HandleEvent(ctx context.Context, eventType string, event IdentityEvent) error {
	switch eventType {
	case EventUserCreated:
		_, err := s.createUser(ctx, event)
		return err
	case EventUserUpdated:
		_, err := s.updateUser(ctx, event)
		return err
	case EventUserDeleted:
		return s.deleteUser(ctx, event)
	default:
		logger.Logger.WithFields(logrus.Fields{"event_type": eventType}).Info("unhandled identity event")
		return nil
	}
}

func (s *identityService) createUser(ctx context.Context, event IdentityEvent) (*models.User, error) {
	if event.ID == "" || event.Email == "" {
		return nil, errors.ErrInvalidInput
	}

	// Replays of user.created are reconciled rather than rejected.
	user, err := s.userService.GetByExternalID(ctx, nil, event.ID)
	if err == nil {
		if user.Email != event.Email {
			return s.userService.Update(ctx, nil, user.ID, UpdateUserInput{Email: &event.Email})
		}
		return user, nil
	}
	if err != errors.ErrNotFound {
		return nil, err
	}

	if _, err := s.userService.GetByEmail(ctx, nil, event.Email); err == nil {
		return nil, errors.ErrAlreadyExists
	} else if err != errors.ErrNotFound {
		return nil, err
	}

	return s.userService.Create(ctx, nil, CreateUserInput{
		Email:      event.Email,
		ExternalID: event.ID,
	})
}

func (s *identityService) updateUser(ctx context.Context, event IdentityEvent) (*models.User, error) {
	if event.ID == "" {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.userService.GetByExternalID(ctx, nil, event.ID)
	if err != nil {
		return nil, err
	}

	if event.Email != "" && event.Email != user.Email {
		return s.userService.Update(ctx, nil, user.ID, UpdateUserInput{Email: &event.Email})
	}
	return user, nil
}

func (s *identityService) deleteUser(ctx context.Context, event IdentityEvent) error {
	if event.ID == "" {
		return errors.ErrInvalidInput
	}

	user, err := s.userService.GetByExternalID(ctx, nil, event.ID)
	if err != nil {
		return err
	}
	return s.userService.Delete(ctx, nil, user.ID)
}
