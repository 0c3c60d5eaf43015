// Package repository provides persistence for the blog API: an in-memory
// store for development and tests, and a PostgreSQL store.
package repository

import (
	"context"
	"errors"
	"math"

	"github.com/atinyakov/blogmanager/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("already exists")
	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("invalid reference")
)

// ArticleQuery selects one page of articles. Page and Limit are already
// defaulted by the caller.
type ArticleQuery struct {
	Page     int
	Limit    int
	Category int64
	Search   string
}

// Offset is the number of rows skipped before the page. It saturates at
// math.MaxInt instead of overflowing for very large pages.
func (q ArticleQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username string, hash []byte, role models.Role) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, []byte, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, p models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, p models.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ArticleStore persists articles. Reads attach category and author snapshots.
type ArticleStore interface {
	ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, int, error)
	ArticleByID(ctx context.Context, id int64) (models.Article, error)
	CreateArticle(ctx context.Context, in models.ArticleInput) (models.Article, error)
	UpdateArticle(ctx context.Context, id int64, p models.ArticlePatch) (models.Article, error)
	DeleteArticle(ctx context.Context, id int64) error
}

// Store is the full persistence surface of the API.
type Store interface {
	UserStore
	CategoryStore
	ArticleStore
}
