package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/middleware"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
)

// envelope is the {success, data} wrapper used by some endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: v})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// storeError maps a repository error to a response.
func storeError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "Referenced record does not exist")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID reads the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// caller returns the stored account behind the bearer token if its current
// role holds res, or writes 401/403. The role claim in the token is not
// trusted: a deleted account gets 401 and a reassigned role applies at once.
func caller(w http.ResponseWriter, r *http.Request, users repository.UserStore, res access.Resource) (models.User, bool) {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return models.User{}, false
	}
	u, err := users.UserByID(r.Context(), p.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return models.User{}, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return models.User{}, false
	}
	if res != "" && !access.Allowed(u.Role, res) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return models.User{}, false
	}
	return u, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
