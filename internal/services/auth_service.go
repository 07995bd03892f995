package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"account-api/internal/logger"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.ErrInvalidCredentials
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

// AuthService handles registration, login and bearer-token verification.
// Registration and token resolution run as system operations.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	userService   UserService
	apiKeyService APIKeyService
	jwtSecret     string
}

func NewAuthService(
	userRepo repository.UserRepository,
	userService UserService,
	apiKeyService APIKeyService,
	jwtSecret string,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		userService:   userService,
		apiKeyService: apiKeyService,
		jwtSecret:     jwtSecret,
	}
}

// Register creates a standard user and assigns an API key. The key plaintext
// is returned alongside the user and never stored.
func (s *authService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errors.ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userService.Create(ctx, nil, CreateUserInput{
		Email:        email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		return nil, "", err
	}

	apiKey, err := s.apiKeyService.Generate(ctx, user)
	if err != nil {
		// Remove the half-registered account so the email stays available.
		if delErr := s.userService.Delete(ctx, nil, user.ID); delErr != nil {
			logger.Logger.WithError(delErr).WithField("user_id", user.ID).
				Error("Failed to roll back user after key generation failure")
		}
		return nil, "", err
	}

	return user, apiKey, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.userRepo.GetByID(ctx, nil, userID)
}
