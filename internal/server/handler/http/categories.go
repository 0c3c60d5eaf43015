package http

import (
	"net/http"
	"strings"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
)

// CategoryHandler serves the category collection.
type CategoryHandler struct {
	Categories repository.CategoryStore
	Users      repository.UserStore
}

// List replies with {success, data}.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Categories.ListCategories(r.Context())
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeData(w, cats)
}

// Get replies with {success, data}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Categories.CategoryByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Category not found")
		return
	}
	writeData(w, c)
}

// Create stores a category and replies with it bare.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.CategoriesWrite); !ok {
		return
	}
	var in models.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	c, err := h.Categories.CreateCategory(r.Context(), in)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update changes name or description.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.CategoriesWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.CategoryPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	c, err := h.Categories.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		storeError(w, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a category and replies 204.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.CategoriesWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Categories.DeleteCategory(r.Context(), id); err != nil {
		storeError(w, err, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
