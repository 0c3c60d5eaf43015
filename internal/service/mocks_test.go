package service

import (
	"context"
	"testing"

	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

type mockAuthAPI struct {
	LoginFunc      func(ctx context.Context, username, password string) (models.AuthResponse, error)
	RegisterFunc   func(ctx context.Context, username, password string, role models.Role) (models.AuthResponse, error)
	GetProfileFunc func(ctx context.Context, s *session.Session) (models.User, error)
}

func (m *mockAuthAPI) Login(ctx context.Context, username, password string) (models.AuthResponse, error) {
	return m.LoginFunc(ctx, username, password)
}
func (m *mockAuthAPI) Register(ctx context.Context, username, password string, role models.Role) (models.AuthResponse, error) {
	return m.RegisterFunc(ctx, username, password, role)
}
func (m *mockAuthAPI) GetProfile(ctx context.Context, s *session.Session) (models.User, error) {
	return m.GetProfileFunc(ctx, s)
}

type mockArticleAPI struct {
	ListArticlesFunc  func(ctx context.Context, s *session.Session, f models.ArticleFilter) (models.Page[models.Article], error)
	GetArticleFunc    func(ctx context.Context, s *session.Session, id int64) (models.Article, error)
	CreateArticleFunc func(ctx context.Context, s *session.Session, in models.ArticleInput) (models.Article, error)
	UpdateArticleFunc func(ctx context.Context, s *session.Session, id int64, p models.ArticlePatch) (models.Article, error)
	DeleteArticleFunc func(ctx context.Context, s *session.Session, id int64) error
}

func (m *mockArticleAPI) ListArticles(ctx context.Context, s *session.Session, f models.ArticleFilter) (models.Page[models.Article], error) {
	return m.ListArticlesFunc(ctx, s, f)
}
func (m *mockArticleAPI) GetArticle(ctx context.Context, s *session.Session, id int64) (models.Article, error) {
	return m.GetArticleFunc(ctx, s, id)
}
func (m *mockArticleAPI) CreateArticle(ctx context.Context, s *session.Session, in models.ArticleInput) (models.Article, error) {
	return m.CreateArticleFunc(ctx, s, in)
}
func (m *mockArticleAPI) UpdateArticle(ctx context.Context, s *session.Session, id int64, p models.ArticlePatch) (models.Article, error) {
	return m.UpdateArticleFunc(ctx, s, id, p)
}
func (m *mockArticleAPI) DeleteArticle(ctx context.Context, s *session.Session, id int64) error {
	return m.DeleteArticleFunc(ctx, s, id)
}

type mockCategoryAPI struct {
	ListCategoriesFunc func(ctx context.Context, s *session.Session) ([]models.Category, error)
	GetCategoryFunc    func(ctx context.Context, s *session.Session, id int64) (models.Category, error)
	CreateCategoryFunc func(ctx context.Context, s *session.Session, in models.CategoryInput) (models.Category, error)
	UpdateCategoryFunc func(ctx context.Context, s *session.Session, id int64, p models.CategoryPatch) (models.Category, error)
	DeleteCategoryFunc func(ctx context.Context, s *session.Session, id int64) error
}

func (m *mockCategoryAPI) ListCategories(ctx context.Context, s *session.Session) ([]models.Category, error) {
	return m.ListCategoriesFunc(ctx, s)
}
func (m *mockCategoryAPI) GetCategory(ctx context.Context, s *session.Session, id int64) (models.Category, error) {
	return m.GetCategoryFunc(ctx, s, id)
}
func (m *mockCategoryAPI) CreateCategory(ctx context.Context, s *session.Session, in models.CategoryInput) (models.Category, error) {
	return m.CreateCategoryFunc(ctx, s, in)
}
func (m *mockCategoryAPI) UpdateCategory(ctx context.Context, s *session.Session, id int64, p models.CategoryPatch) (models.Category, error) {
	return m.UpdateCategoryFunc(ctx, s, id, p)
}
func (m *mockCategoryAPI) DeleteCategory(ctx context.Context, s *session.Session, id int64) error {
	return m.DeleteCategoryFunc(ctx, s, id)
}

type mockUserAPI struct {
	ListUsersFunc  func(ctx context.Context, s *session.Session) ([]models.User, error)
	GetUserFunc    func(ctx context.Context, s *session.Session, id int64) (models.User, error)
	CreateUserFunc func(ctx context.Context, s *session.Session, in models.UserInput) (models.User, error)
	UpdateUserFunc func(ctx context.Context, s *session.Session, id int64, p models.UserPatch) (models.User, error)
	DeleteUserFunc func(ctx context.Context, s *session.Session, id int64) error
}

func (m *mockUserAPI) ListUsers(ctx context.Context, s *session.Session) ([]models.User, error) {
	return m.ListUsersFunc(ctx, s)
}
func (m *mockUserAPI) GetUser(ctx context.Context, s *session.Session, id int64) (models.User, error) {
	return m.GetUserFunc(ctx, s, id)
}
func (m *mockUserAPI) CreateUser(ctx context.Context, s *session.Session, in models.UserInput) (models.User, error) {
	return m.CreateUserFunc(ctx, s, in)
}
func (m *mockUserAPI) UpdateUser(ctx context.Context, s *session.Session, id int64, p models.UserPatch) (models.User, error) {
	return m.UpdateUserFunc(ctx, s, id, p)
}
func (m *mockUserAPI) DeleteUser(ctx context.Context, s *session.Session, id int64) error {
	return m.DeleteUserFunc(ctx, s, id)
}

var (
	adminUser   = models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
	editorUser  = models.User{ID: 2, Username: "ed", Role: models.RoleEditor}
	visitorUser = models.User{ID: 3, Username: "vic", Role: models.RoleVisitor}
)

func storeWith(u *models.User) *session.Store {
	st := session.NewStore()
	if u != nil {
		st.Set(session.Session{User: *u, Token: "tok"})
	}
	return st
}

// unreachable fails the test if the wrapped API is called at all.
func unreachable(t *testing.T, name string) {
	t.Helper()
	t.Errorf("%s must not be called", name)
}
