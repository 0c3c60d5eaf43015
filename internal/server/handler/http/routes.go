package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/blogmanager/internal/middleware"
)

// Handlers groups the resource handlers mounted by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Articles   *ArticleHandler
	Categories *CategoryHandler
	Users      *UserHandler
}

// NewRouter mounts the blog API under /api.
//
// Middleware chain, in order:
//  1. Recoverer turns handler panics into 500s
//  2. AllowContentType rejects request bodies that are not JSON
//  3. WithRequestLogging logs every request
//  4. BearerAuth resolves the caller from the Authorization header
//
// Reads of articles and categories are public. Everything else reloads the
// caller's account and checks its stored role inside the handler.
func NewRouter(h Handlers, tokens middleware.TokenParser, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.BearerAuth(tokens))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Get("/profile", h.Auth.Profile)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.Articles.List)
			r.Post("/", h.Articles.Create)
			r.Get("/{id}", h.Articles.Get)
			r.Put("/{id}", h.Articles.Update)
			r.Delete("/{id}", h.Articles.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Get("/{id}", h.Categories.Get)
			r.Put("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	return r
}
