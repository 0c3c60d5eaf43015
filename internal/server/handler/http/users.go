package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/auth"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
)

// UserHandler serves the user collection. Every route is admin only.
type UserHandler struct {
	Users repository.UserStore
}

// List replies with {success, data}.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.UsersRead); !ok {
		return
	}
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeData(w, users)
}

// Get replies with {success, data}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.UsersRead); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Users.UserByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	writeData(w, u)
}

// Create stores an account and replies with it bare, without the password.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.UsersWrite); !ok {
		return
	}
	var in models.UserInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if !in.Role.Known() {
		writeError(w, http.StatusBadRequest, "Unknown role")
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	u, err := h.Users.CreateUser(r.Context(), in.Username, hash, in.Role.Canonical())
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Update changes username or role.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.UsersWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.UserPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if patch.Role != nil {
		if !patch.Role.Known() {
			writeError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		role := patch.Role.Canonical()
		patch.Role = &role
	}
	u, err := h.Users.UpdateUser(r.Context(), id, patch)
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete removes an account and replies 204.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.UsersWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		storeError(w, err, "User not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
