package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"account-api/internal/api"
	"account-api/internal/config"
	"account-api/internal/database"
	"account-api/internal/logger"
	"account-api/internal/repository"
	"account-api/internal/services"
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

	// Production schemas are managed by the versioned migrations.
	if !cfg.IsProduction() {
		if err := database.AutoMigrate(db); err != nil {
			logger.Logger.WithError(err).Fatal("Failed to migrate database")
		}
	}

	var cache services.CacheService
	cache, err = services.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Logger.WithError(err).Warn("Redis unavailable, API key caching disabled")
		cache = services.NopCacheService{}
	}

	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	userService := services.NewUserService(userRepo)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, cache, cfg.SecretKey)
	authService := services.NewAuthService(userRepo, userService, apiKeyService, cfg.JWTSecret)
	identityService := services.NewIdentityService(userService)

	handler := api.SetupRoutes(api.Deps{
		DB:              db,
		AuthService:     authService,
		APIKeyService:   apiKeyService,
		UserService:     userService,
		IdentityService: identityService,
		WebhookSecret:   cfg.WebhookSecret,
		AllowedOrigins:  cfg.AllowedCORSOrigins(),
	})

	srv := &http.Server{
		Handler:      handler,
		Addr:         ":" + cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Logger.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Logger.Info("Server stopped")
}
