package main

import (
	"context"
	"flag"
	"fmt"

	"account-api/internal/authz"
	"account-api/internal/config"
	"account-api/internal/database"
	"account-api/internal/factory"
	"account-api/internal/logger"
	"account-api/internal/repository"
	"account-api/internal/services"
)

// Seeds the database with random standard users for local development.
func main() {
	count := flag.Int("count", 10, "number of users to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.IsProduction() {
		logger.Logger.Fatal("Refusing to populate a production database")
	}

	db, err := database.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	userService := services.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	created := 0
	for i := 0; i < *count; i++ {
		input, _, err := factory.NewUserInput(authz.RoleStandard)
		if err != nil {
			logger.Logger.WithError(err).Fatal("Failed to build user input")
		}
		user, err := userService.Create(ctx, nil, input)
		if err != nil {
			logger.Logger.WithError(err).WithField("email", input.Email).Warn("Skipping user")
			continue
		}
		fmt.Printf("created %s (%s)\n", user.Email, user.ID)
		created++
	}

	logger.Logger.WithField("created", created).Info("Populate finished")
}
