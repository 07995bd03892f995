package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"account-api/internal/authz"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
	"account-api/internal/services"
)

// UserHandler exposes the user CRUD endpoints.
type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	ExternalID string `json:"external_id"`
}

type updateUserRequest struct {
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func userFiltersFromQuery(r *http.Request) repository.UserFilters {
	q := r.URL.Query()
	f := repository.UserFilters{
		Email:      q.Get("email"),
		Role:       authz.Role(q.Get("role")),
		ExternalID: q.Get("external_id"),
	}
	f.Search = q.Get("search")
	f.OrderBy = q.Get("order_by")

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		f.Offset = offset
	}
	if ids := q.Get("ids"); ids != "" {
		for _, raw := range strings.Split(ids, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
				f.IDs = append(f.IDs, id)
			}
		}
	}

	return f
}

// List returns a paginated user collection.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actx := services.AuthContextFromContext(r.Context())

	count, users, err := h.userService.List(r.Context(), actx, userFiltersFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paginatedResponse{Count: count, Data: users})
}

// Create adds a new user. Admin only (enforced by routing and the service).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actx := services.AuthContextFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), actx, services.CreateUserInput{
		Email:      req.Email,
		Role:       authz.Role(req.Role),
		ExternalID: req.ExternalID,
	})
	if err != nil {
		if err == errors.ErrAlreadyExists {
			writeError(w, http.StatusBadRequest, "a user with this email already exists")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Get returns a single user. Rows the caller may not read are reported as
// missing rather than forbidden.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actx := services.AuthContextFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), actx, id)
	if err != nil {
		if err == errors.ErrNotFound || err == errors.ErrPermissionDenied {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actx := services.AuthContextFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := services.UpdateUserInput{Email: req.Email}
	if req.Role != nil {
		role := authz.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.Update(r.Context(), actx, id, input)
	if err != nil {
		if err == errors.ErrNotFound {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actx := services.AuthContextFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), actx, id); err != nil {
		switch err {
		case errors.ErrNotFound:
			writeError(w, http.StatusNotFound, "user not found")
		case errors.ErrPermissionDenied:
			writeError(w, http.StatusForbidden, "you are not allowed to delete yourself")
		default:
			writeDomainError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Detail: "Deleted user " + id.String()})
}
