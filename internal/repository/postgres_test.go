package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/blogmanager/internal/models"
)

func setupMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresStore(db), mock, func() { db.Close() }
}

var articleCols = []string{
	"id", "title", "content", "category_id", "author_id", "created_at", "updated_at",
	"c.id", "c.name", "c.description", "c.created_at",
	"u.id", "u.username", "u.role", "u.created_at",
}

func TestCreateUser_Success(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, role)`)).
		WithArgs("alice", []byte("hash"), "EDITEUR").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), now))

	u, err := store.CreateUser(context.Background(), "alice", []byte("hash"), models.RoleEditor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 4 || u.Username != "alice" || u.CreatedAt == nil {
		t.Errorf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), "alice", []byte("hash"), models.RoleVisitor)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUserByUsername_NotFound(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "created_at", "password_hash"}))

	_, _, err := store.UserByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, role, created_at FROM users ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "created_at"}).
			AddRow(int64(1), "root", "ADMIN", now).
			AddRow(int64(2), "vic", "VISITEUR", now))

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[1].Role != models.RoleVisitor {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestUpdateUser_RoleOnly(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	role := models.RoleAdmin
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs(int64(2), nil, "ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "created_at"}).
			AddRow(int64(2), "vic", "ADMIN", now))

	u, err := store.UpdateUser(context.Background(), 2, models.UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q; want ADMIN", u.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteUser(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCategory(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	desc := "desc"
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, description)`)).
		WithArgs("Tech", "desc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(int64(3), "Tech", "desc", now))

	c, err := store.CreateCategory(context.Background(), models.CategoryInput{Name: "Tech", Description: &desc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 3 || c.Description == nil || *c.Description != "desc" {
		t.Errorf("unexpected category: %+v", c)
	}
}

func TestCategoryByID_NullDescription(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(int64(3), "Tech", nil, time.Now()))

	c, err := store.CategoryByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Description != nil {
		t.Errorf("expected nil description, got %q", *c.Description)
	}
}

func TestListArticles_FiltersAndPaging(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM articles a WHERE a.category_id = $1 AND (a.title ILIKE $2 OR a.content ILIKE $2)`)).
		WithArgs(int64(2), `%go\_lang%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY a.id DESC LIMIT $3 OFFSET $4`)).
		WithArgs(int64(2), `%go\_lang%`, 5, 5).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(int64(7), "Go", "body", int64(2), int64(1), now, now,
				int64(2), "Tech", nil, now,
				int64(1), "root", "ADMIN", now))

	items, total, err := store.ListArticles(context.Background(), ArticleQuery{Page: 2, Limit: 5, Category: 2, Search: "go_lang"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 11 || len(items) != 1 {
		t.Fatalf("total=%d items=%d", total, len(items))
	}
	a := items[0]
	if a.Category == nil || a.Category.Name != "Tech" || a.Author == nil || a.Author.Username != "root" {
		t.Errorf("snapshots not attached: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestArticleByID_MissingSnapshots(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(int64(7), "Go", "body", int64(2), int64(1), now, now,
				nil, nil, nil, nil,
				nil, nil, nil, nil))

	a, err := store.ArticleByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Category != nil || a.Author != nil {
		t.Errorf("expected nil snapshots, got %+v", a)
	}
}

func TestCreateArticle_InvalidCategory(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO articles`)).
		WithArgs("t", "c", int64(99), int64(1)).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := store.CreateArticle(context.Background(), models.ArticleInput{Title: "t", Content: "c", CategoryID: 99, AuthorID: 1})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestUpdateArticle_NotFound(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	title := "new"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE articles`)).
		WithArgs(int64(5), "new", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateArticle(context.Background(), 5, models.ArticlePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM articles WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.DeleteArticle(context.Background(), 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLikePattern(t *testing.T) {
	if got := likePattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Errorf("likePattern = %q", got)
	}
}
