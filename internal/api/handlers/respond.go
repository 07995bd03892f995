package handlers

import (
	"encoding/json"
	"net/http"

	"account-api/internal/pkg/errors"
)

type statusResponse struct {
	Detail string `json:"detail"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type paginatedResponse struct {
	Count int64       `json:"count"`
	Data  interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// domainStatus maps domain errors to HTTP status codes.
func domainStatus(err error) int {
	switch err {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrPermissionDenied:
		return http.StatusForbidden
	case errors.ErrAlreadyExists, errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := domainStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, message)
}
