// Package http provides the HTTP handlers of the blog API.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/blogmanager/internal/auth"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
)

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
}

// AuthHandler handles login, registration and profile requests.
type AuthHandler struct {
	Users  repository.UserStore
	Tokens TokenIssuer
}

// Login checks the credentials and replies with a token and the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, hash, err := h.Users.UserByUsername(r.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !auth.CheckPassword(hash, req.Password)) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		storeError(w, err, "")
		return
	}
	h.respondWithToken(w, http.StatusOK, u)
}

// Register creates an account and logs it in. The role defaults to visitor.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	role := models.RoleVisitor
	if req.Role != "" {
		if !req.Role.Known() {
			writeError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		role = req.Role.Canonical()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	u, err := h.Users.CreateUser(r.Context(), req.Username, hash, role)
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		storeError(w, err, "")
		return
	}
	h.respondWithToken(w, http.StatusCreated, u)
}

// Profile returns the caller's account as a bare object.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.Users, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, u models.User) {
	token, err := h.Tokens.Issue(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, models.AuthResponse{Token: token, User: u})
}
