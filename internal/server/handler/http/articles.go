package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ArticleHandler serves the article collection.
type ArticleHandler struct {
	Articles repository.ArticleStore
	Users    repository.UserStore
}

func positiveParam(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// List replies with {data, total, page, limit, totalPages}. A page past the
// end yields an empty list.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok1 := positiveParam(r, "page")
	limit, ok2 := positiveParam(r, "limit")
	category, ok3 := positiveParam(r, "category")
	if !ok1 || !ok2 || !ok3 {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	q := repository.ArticleQuery{
		Page:     int(max(page, 1)),
		Limit:    int(min(max(limit, 0), maxLimit)),
		Category: category,
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}

	// Pages whose offset cannot be represented are past the end; only the
	// total is needed for them.
	beyond := q.Offset() == math.MaxInt
	lookup := q
	if beyond {
		lookup.Page = 1
	}
	items, total, err := h.Articles.ListArticles(r.Context(), lookup)
	if err != nil {
		storeError(w, err, "")
		return
	}
	if beyond {
		items = []models.Article{}
	}
	writeJSON(w, http.StatusOK, models.Page[models.Article]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: models.PageCount(total, q.Limit),
	})
}

// Get replies with {success, data}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.Articles.ArticleByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Article not found")
		return
	}
	writeData(w, a)
}

// Create stores an article authored by the caller and replies with it bare.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.Users, access.ArticlesWrite)
	if !ok {
		return
	}
	var in models.ArticleInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" || in.CategoryID < 1 {
		writeError(w, http.StatusBadRequest, "Title and category are required")
		return
	}
	in.AuthorID = u.ID
	a, err := h.Articles.CreateArticle(r.Context(), in)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Update changes title, content or category. Other fields in the body are ignored.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.ArticlesWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.ArticlePatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	a, err := h.Articles.UpdateArticle(r.Context(), id, patch)
	if err != nil {
		storeError(w, err, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Delete removes an article and replies 204.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r, h.Users, access.ArticlesWrite); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Articles.DeleteArticle(r.Context(), id); err != nil {
		storeError(w, err, "Article not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
