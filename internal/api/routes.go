package api

import (
	"net/http"

	"account-api/internal/api/handlers"
	"account-api/internal/middleware"
	"account-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Deps carries everything the router needs.
type Deps struct {
	DB              *gorm.DB
	AuthService     services.AuthService
	APIKeyService   services.APIKeyService
	UserService     services.UserService
	IdentityService services.IdentityService
	WebhookSecret   string
	AllowedOrigins  []string
}

// SetupRoutes builds the full HTTP handler: public routes, the protected
// /api/v1 subrouter and the CORS wrapper.
func SetupRoutes(deps Deps) http.Handler {
	router := mux.NewRouter()

	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	meHandler := handlers.NewMeHandler(deps.UserService, deps.APIKeyService)
	webhookHandler := handlers.NewWebhookHandler(deps.IdentityService, deps.WebhookSecret)

	rateLimiter := middleware.NewRateLimiter()

	// Public routes
	router.HandleFunc("/health", healthHandler.Check).Methods("GET")
	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/webhooks/identity", webhookHandler.Identity).Methods("POST")

	// Protected routes
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.Auth(deps.AuthService, deps.APIKeyService))
	apiRouter.Use(middleware.LoggingMiddleware)
	apiRouter.Use(rateLimiter.RateLimit)

	apiRouter.HandleFunc("/me", meHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/me", meHandler.Update).Methods("PATCH")
	apiRouter.HandleFunc("/me/api-key", meHandler.GenerateAPIKey).Methods("POST")
	apiRouter.HandleFunc("/me/api-key", meHandler.RevokeAPIKey).Methods("DELETE")

	apiRouter.HandleFunc("/users", userHandler.List).Methods("GET")
	apiRouter.HandleFunc("/users/{id}", userHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/users/{id}", userHandler.Update).Methods("PATCH")

	// Creation and deletion are admin operations
	adminRouter := apiRouter.NewRoute().Subrouter()
	adminRouter.Use(middleware.AdminOnly())
	adminRouter.HandleFunc("/users", userHandler.Create).Methods("POST")
	adminRouter.HandleFunc("/users/{id}", userHandler.Delete).Methods("DELETE")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-API-Key",
			"X-Webhook-Signature",
		},
		ExposedHeaders: []string{
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsMiddleware.Handler(router)
}
