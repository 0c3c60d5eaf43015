package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

func TestCreate_VisitorDeniedBeforeNetwork(t *testing.T) {
	arts := &mockArticleAPI{
		CreateArticleFunc: func(context.Context, *session.Session, models.ArticleInput) (models.Article, error) {
			unreachable(t, "CreateArticle")
			return models.Article{}, nil
		},
	}
	svc := NewArticleService(arts, &mockCategoryAPI{}, storeWith(&visitorUser))

	cats := []models.Category{{ID: 4, Name: "Go"}}
	_, err := svc.Create(context.Background(), "t", "c", 4, cats)
	if !errors.Is(err, api.ErrForbidden) {
		t.Fatalf("Create error = %v; want ErrForbidden", err)
	}
}

func TestCreate_NoSession(t *testing.T) {
	svc := NewArticleService(&mockArticleAPI{}, &mockCategoryAPI{}, storeWith(nil))
	_, err := svc.Create(context.Background(), "t", "c", 4, nil)
	if !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("Create error = %v; want ErrUnauthenticated", err)
	}
}

func TestCreate_AuthorFromSession(t *testing.T) {
	var got models.ArticleInput
	arts := &mockArticleAPI{
		CreateArticleFunc: func(_ context.Context, s *session.Session, in models.ArticleInput) (models.Article, error) {
			got = in
			return models.Article{ID: 9, Title: in.Title, CategoryID: in.CategoryID, AuthorID: in.AuthorID}, nil
		},
	}
	svc := NewArticleService(arts, &mockCategoryAPI{}, storeWith(&editorUser))

	a, err := svc.Create(context.Background(), "Hello", "body", 4, []models.Category{{ID: 4}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got.AuthorID != editorUser.ID {
		t.Errorf("AuthorID = %d; want %d", got.AuthorID, editorUser.ID)
	}
	if a.ID != 9 {
		t.Errorf("ID = %d; want 9", a.ID)
	}
}

func TestCreate_CategoryMustBeLoaded(t *testing.T) {
	arts := &mockArticleAPI{
		CreateArticleFunc: func(context.Context, *session.Session, models.ArticleInput) (models.Article, error) {
			unreachable(t, "CreateArticle")
			return models.Article{}, nil
		},
	}
	svc := NewArticleService(arts, &mockCategoryAPI{}, storeWith(&editorUser))

	_, err := svc.Create(context.Background(), "Hello", "", 7, []models.Category{{ID: 4}})
	if !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("Create error = %v; want ErrInvalidInput", err)
	}
	var rf *api.RequestFailedError
	if !errors.As(err, &rf) {
		t.Fatalf("Create error = %T; want *api.RequestFailedError", err)
	}
	if rf.Op != "createArticle" || rf.Status != 0 {
		t.Errorf("Op = %q, Status = %d; want createArticle, 0", rf.Op, rf.Status)
	}
	if got, want := api.Describe(err), "Failed to create article: pick a category from the list"; got != want {
		t.Errorf("Describe = %q; want %q", got, want)
	}
	_, err = svc.Create(context.Background(), "  ", "", 4, []models.Category{{ID: 4}})
	if !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("Create error = %v; want ErrInvalidInput", err)
	}
}

func TestList_ClampsPage(t *testing.T) {
	var sent models.ArticleFilter
	arts := &mockArticleAPI{
		ListArticlesFunc: func(_ context.Context, _ *session.Session, f models.ArticleFilter) (models.Page[models.Article], error) {
			sent = f
			return models.Page[models.Article]{Items: []models.Article{}, Total: 25, Page: 9, Limit: 10, TotalPages: 3}, nil
		},
	}
	svc := NewArticleService(arts, &mockCategoryAPI{}, storeWith(&visitorUser))

	_, pager, err := svc.List(context.Background(), models.ArticleFilter{Page: -2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if sent.Page != 1 {
		t.Errorf("requested page = %d; want 1", sent.Page)
	}
	if pager.Page != 3 || pager.TotalPages != 3 {
		t.Errorf("pager = %+v; want page 3 of 3", pager)
	}
	if pager.HasNext() || !pager.HasPrev() {
		t.Errorf("pager = %+v; want prev only", pager)
	}
}

func TestOpenEditor_FailFast(t *testing.T) {
	wantErr := &api.RequestFailedError{Op: "listCategories", Message: "Failed to fetch categories"}
	arts := &mockArticleAPI{
		GetArticleFunc: func(context.Context, *session.Session, int64) (models.Article, error) {
			return models.Article{ID: 5, Title: "t"}, nil
		},
	}
	cats := &mockCategoryAPI{
		ListCategoriesFunc: func(context.Context, *session.Session) ([]models.Category, error) {
			return nil, wantErr
		},
	}
	svc := NewArticleService(arts, cats, storeWith(&editorUser))

	ed, err := svc.OpenEditor(context.Background(), 5)
	if !errors.Is(err, wantErr) {
		t.Fatalf("OpenEditor error = %v; want %v", err, wantErr)
	}
	if ed.Loaded() {
		t.Error("editor must not be loaded after a failed join")
	}
}

func TestUpdate_RequiresLoadedEditor(t *testing.T) {
	arts := &mockArticleAPI{
		UpdateArticleFunc: func(context.Context, *session.Session, int64, models.ArticlePatch) (models.Article, error) {
			unreachable(t, "UpdateArticle")
			return models.Article{}, nil
		},
	}
	svc := NewArticleService(arts, &mockCategoryAPI{}, storeWith(&editorUser))

	title := "x"
	for _, ed := range []*Editor{nil, {Article: models.Article{ID: 5}}} {
		_, err := svc.Update(context.Background(), ed, models.ArticlePatch{Title: &title})
		if !errors.Is(err, ErrNotLoaded) {
			t.Errorf("Update error = %v; want ErrNotLoaded", err)
		}
	}
}

func TestEditorRoundTrip(t *testing.T) {
	var patched int64
	arts := &mockArticleAPI{
		GetArticleFunc: func(_ context.Context, _ *session.Session, id int64) (models.Article, error) {
			return models.Article{ID: id, Title: "old", CategoryID: 1}, nil
		},
		UpdateArticleFunc: func(_ context.Context, _ *session.Session, id int64, p models.ArticlePatch) (models.Article, error) {
			patched = id
			return models.Article{ID: id, Title: *p.Title, CategoryID: *p.CategoryID}, nil
		},
	}
	cats := &mockCategoryAPI{
		ListCategoriesFunc: func(context.Context, *session.Session) ([]models.Category, error) {
			return []models.Category{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewArticleService(arts, cats, storeWith(&adminUser))

	ed, err := svc.OpenEditor(context.Background(), 5)
	if err != nil {
		t.Fatalf("OpenEditor returned error: %v", err)
	}
	title, cat := "new", int64(2)
	a, err := svc.Update(context.Background(), ed, models.ArticlePatch{Title: &title, CategoryID: &cat})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if patched != 5 || a.Title != "new" || ed.Article.CategoryID != 2 {
		t.Errorf("unexpected result: patched=%d article=%+v editor=%+v", patched, a, ed.Article)
	}

	bad := int64(3)
	_, err = svc.Update(context.Background(), ed, models.ArticlePatch{CategoryID: &bad})
	if !errors.Is(err, api.ErrInvalidInput) {
		t.Errorf("Update error = %v; want ErrInvalidInput", err)
	}
	var rf *api.RequestFailedError
	if !errors.As(err, &rf) || rf.Op != "updateArticle" {
		t.Errorf("Update error = %#v; want *api.RequestFailedError for updateArticle", err)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{6, 5, 5},
		{3, 0, 1},
		{-1, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d; want %d", tt.page, tt.total, got, tt.want)
		}
	}
}
