package main

import (
	"os"
	"os/signal"
	"syscall"

	"account-api/internal/config"
	"account-api/internal/database"
	"account-api/internal/logger"
	"account-api/internal/repository"
	"account-api/internal/services"
	"account-api/internal/workers"
)

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

	scheduler := workers.NewScheduler(workers.NewFlows(userService, apiKeyService))
	if err := scheduler.Register(cfg.UserSyncSchedule, cfg.KeyAuditSchedule); err != nil {
		logger.Logger.WithError(err).Fatal("Failed to register background flows")
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()
}
