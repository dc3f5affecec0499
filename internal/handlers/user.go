package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flixhub/apiserver/internal/auth"
	"github.com/flixhub/apiserver/internal/services"
	"github.com/flixhub/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides account-management endpoints.
type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers account routes on the given router. All routes require
// authentication; the list route additionally requires the admin role, and
// the per-id routes apply the self-or-admin ownership rule.
func UserRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewUserHandler(userService, logger)

	r.Use(authMiddleware)
	r.With(RequireRole(types.RoleAdmin)).Get("/", handler.ListUsers)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Patch("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
	})
}

// UserListResponse is the paginated account list payload.
type UserListResponse struct {
	Users      []types.User `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	users, total, err := h.userService.List(r.Context(), offset, limit)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, UserListResponse{
		Users:      users,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.resolveOwnedUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUserRequest carries the mutable profile fields. The password is
// explicitly not updatable here.
type UpdateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.resolveOwnedUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), id, strings.TrimSpace(req.Email), strings.TrimSpace(req.Name))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.resolveOwnedUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveOwnedUser parses the path id and applies the self-or-admin rule.
// On failure the response has already been written.
func (h *UserHandler) resolveOwnedUser(w http.ResponseWriter, r *http.Request) (int, auth.Identity, bool) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, auth.Identity{}, false
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, auth.Identity{}, false
	}

	if err := auth.AuthorizeOwnerOrRole(identity, id, types.RoleAdmin); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return 0, auth.Identity{}, false
	}
	return id, identity, true
}
