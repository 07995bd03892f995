package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"account-api/internal/authz"
	"account-api/internal/config"
	"account-api/internal/database"
	"account-api/internal/factory"
	"account-api/internal/logger"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
	"account-api/internal/services"
)

// Creates the default account from DEFAULT_USER_EMAIL / DEFAULT_USER_ROLE
// and prints the credentials once. Safe to re-run: an existing account is
// left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	userService := services.NewUserService(userRepo)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, services.NopCacheService{}, cfg.SecretKey)

	ctx := context.Background()

	role := authz.Role(cfg.DefaultUserRole)
	if !role.Valid() {
		logger.Logger.WithField("role", cfg.DefaultUserRole).Fatal("Invalid default user role")
	}

	input, password, err := factory.NewUserInput(role)
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to build user input")
	}
	input.Email = cfg.DefaultUserEmail

	user, err := userService.Create(ctx, nil, input)
	if err != nil {
		if stderrors.Is(err, errors.ErrAlreadyExists) {
			logger.Logger.WithField("email", cfg.DefaultUserEmail).Info("Default user already exists, nothing to do")
			return
		}
		logger.Logger.WithError(err).Fatal("Failed to create default user")
	}

	apiKey, err := apiKeyService.Generate(ctx, user)
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to generate API key")
	}

	fmt.Printf("Created user %s (%s)\n", user.Email, user.Role)
	fmt.Printf("Password: %s\n", password)
	fmt.Printf("API key:  %s\n", apiKey)
	fmt.Println("Store these now, they will not be shown again.")
}
