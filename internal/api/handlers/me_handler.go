package handlers

import (
	"encoding/json"
	"net/http"

	"account-api/internal/models"
	"account-api/internal/pkg/errors"
	"account-api/internal/services"
)

// MeHandler exposes the current-user endpoints, including API key lifecycle.
type MeHandler struct {
	userService   services.UserService
	apiKeyService services.APIKeyService
}

func NewMeHandler(userService services.UserService, apiKeyService services.APIKeyService) *MeHandler {
	return &MeHandler{
		userService:   userService,
		apiKeyService: apiKeyService,
	}
}

type updateMeRequest struct {
	Configuration *models.JSON `json:"configuration"`
}

type apiKeyGeneratedResponse struct {
	APIKey string `json:"api_key"`
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update lets the caller change their own configuration. Role and email
// changes go through the admin endpoints.
func (h *MeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actx := models.NewAuthContext(user)
	updated, err := h.userService.Update(r.Context(), actx, user.ID, services.UpdateUserInput{
		Configuration: req.Configuration,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// GenerateAPIKey issues a new API key for the caller, replacing any existing
// one. The plaintext is returned this once only.
func (h *MeHandler) GenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	apiKey, err := h.apiKeyService.Generate(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiKeyGeneratedResponse{APIKey: apiKey})
}

func (h *MeHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.apiKeyService.Revoke(r.Context(), user); err != nil {
		if err == errors.ErrNotFound {
			writeJSON(w, http.StatusOK, statusResponse{Detail: "No API key found to revoke"})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Detail: "API key revoked successfully"})
}
