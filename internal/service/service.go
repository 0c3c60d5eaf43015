// Package service implements the client screens' logic: each operation asks
// the access policy first and only then calls the blog API.
package service

import (
	"context"

	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// AuthAPI is the part of the API client used for login and registration.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (models.AuthResponse, error)
	Register(ctx context.Context, username, password string, role models.Role) (models.AuthResponse, error)
	GetProfile(ctx context.Context, s *session.Session) (models.User, error)
}

// ArticleAPI is the article collection of the API client.
type ArticleAPI interface {
	ListArticles(ctx context.Context, s *session.Session, f models.ArticleFilter) (models.Page[models.Article], error)
	GetArticle(ctx context.Context, s *session.Session, id int64) (models.Article, error)
	CreateArticle(ctx context.Context, s *session.Session, in models.ArticleInput) (models.Article, error)
	UpdateArticle(ctx context.Context, s *session.Session, id int64, p models.ArticlePatch) (models.Article, error)
	DeleteArticle(ctx context.Context, s *session.Session, id int64) error
}

// CategoryAPI is the category collection of the API client.
type CategoryAPI interface {
	ListCategories(ctx context.Context, s *session.Session) ([]models.Category, error)
	GetCategory(ctx context.Context, s *session.Session, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, s *session.Session, in models.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, s *session.Session, id int64, p models.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, s *session.Session, id int64) error
}

// UserAPI is the user collection of the API client.
type UserAPI interface {
	ListUsers(ctx context.Context, s *session.Session) ([]models.User, error)
	GetUser(ctx context.Context, s *session.Session, id int64) (models.User, error)
	CreateUser(ctx context.Context, s *session.Session, in models.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, s *session.Session, id int64, p models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, s *session.Session, id int64) error
}

// authorize returns the current session when allowed accepts its identity.
// No session is ErrUnauthenticated; a refusal is ErrForbidden.
func authorize(p session.Provider, allowed func(who *models.User) bool) (*session.Session, error) {
	s, ok := p.Current()
	if !ok {
		return nil, api.ErrUnauthenticated
	}
	if !allowed(s.Identity()) {
		return nil, api.ErrForbidden
	}
	return s, nil
}

func anyone(*models.User) bool { return true }
