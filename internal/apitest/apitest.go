// Package apitest runs the blog API in-process over an in-memory store for tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/blogmanager/internal/auth"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
	handler "github.com/atinyakov/blogmanager/internal/server/handler/http"
	"github.com/atinyakov/blogmanager/internal/session"
)

// Password is the password of every seeded account.
const Password = "secret"

// Server is a running test API with one account per role and one category.
type Server struct {
	*httptest.Server
	Store  *repository.MemoryStore
	Tokens *auth.Tokens

	Admin    models.User
	Editor   models.User
	Visitor  models.User
	Category models.Category
}

// New starts a seeded server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	store := repository.NewMemoryStore()
	s := &Server{Store: store, Tokens: tokens}

	ctx := context.Background()
	hash, err := auth.HashPassword(Password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	seed := func(name string, role models.Role) models.User {
		u, err := store.CreateUser(ctx, name, hash, role)
		if err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		return u
	}
	s.Admin = seed("admin", models.RoleAdmin)
	s.Editor = seed("editor", models.RoleEditor)
	s.Visitor = seed("visitor", models.RoleVisitor)

	s.Category, err = store.CreateCategory(ctx, models.CategoryInput{Name: "General"})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	router := handler.NewRouter(handler.Handlers{
		Auth:       &handler.AuthHandler{Users: store, Tokens: tokens},
		Articles:   &handler.ArticleHandler{Articles: store, Users: store},
		Categories: &handler.CategoryHandler{Categories: store, Users: store},
		Users:      &handler.UserHandler{Users: store},
	}, tokens, zap.NewNop())

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root a client should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// SessionFor returns a logged-in session for u.
func (s *Server) SessionFor(t testing.TB, u models.User) session.Session {
	t.Helper()
	token, err := s.Tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return session.Session{User: u, Token: token}
}
