package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// ErrNotLoaded is returned when an update is attempted before the editor
// finished loading the article it edits.
var ErrNotLoaded = errors.New("editor not loaded")

// ArticleService backs the article list, detail, creation and edit screens.
type ArticleService struct {
	articles   ArticleAPI
	categories CategoryAPI
	sessions   session.Provider
}

// NewArticleService constructs an ArticleService.
func NewArticleService(articles ArticleAPI, categories CategoryAPI, sessions session.Provider) *ArticleService {
	return &ArticleService{articles: articles, categories: categories, sessions: sessions}
}

func canRead(who *models.User) bool  { return access.CanView(who, access.ArticlesRead) }
func canWrite(who *models.User) bool { return access.CanMutate(who, access.ArticlesWrite, 0) }

// List returns one page of articles and the pager positioned on it. A page
// below 1 is requested as page 1.
func (s *ArticleService) List(ctx context.Context, f models.ArticleFilter) (models.Page[models.Article], Pager, error) {
	sess, err := authorize(s.sessions, canRead)
	if err != nil {
		return models.Page[models.Article]{}, Pager{}, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	page, err := s.articles.ListArticles(ctx, sess, f)
	if err != nil {
		return models.Page[models.Article]{}, Pager{}, err
	}
	return page, Pager{Page: ClampPage(page.Page, page.TotalPages), TotalPages: page.TotalPages}, nil
}

// Get returns one article.
func (s *ArticleService) Get(ctx context.Context, id int64) (models.Article, error) {
	sess, err := authorize(s.sessions, canRead)
	if err != nil {
		return models.Article{}, err
	}
	return s.articles.GetArticle(ctx, sess, id)
}

// NewArticleForm loads the categories an article may be filed under.
func (s *ArticleService) NewArticleForm(ctx context.Context) ([]models.Category, error) {
	sess, err := authorize(s.sessions, canWrite)
	if err != nil {
		return nil, err
	}
	return s.categories.ListCategories(ctx, sess)
}

// Create files a new article under a category picked from loaded. The author
// is always the logged-in user.
func (s *ArticleService) Create(ctx context.Context, title, content string, categoryID int64, loaded []models.Category) (models.Article, error) {
	sess, err := authorize(s.sessions, canWrite)
	if err != nil {
		return models.Article{}, err
	}
	if strings.TrimSpace(title) == "" {
		return models.Article{}, rejected("createArticle", "Failed to create article", "title is required")
	}
	if !containsCategory(loaded, categoryID) {
		return models.Article{}, rejected("createArticle", "Failed to create article", "pick a category from the list")
	}
	return s.articles.CreateArticle(ctx, sess, models.ArticleInput{
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		AuthorID:   sess.User.ID,
	})
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	sess, err := authorize(s.sessions, canWrite)
	if err != nil {
		return err
	}
	return s.articles.DeleteArticle(ctx, sess, id)
}

// Editor is the state of the article edit screen.
type Editor struct {
	Article    models.Article
	Categories []models.Category
	loaded     bool
}

// Loaded reports whether the article and categories were both fetched.
func (e *Editor) Loaded() bool {
	return e != nil && e.loaded
}

// OpenEditor fetches the article and the category list together. Either
// failure fails the whole load.
func (s *ArticleService) OpenEditor(ctx context.Context, id int64) (*Editor, error) {
	sess, err := authorize(s.sessions, canWrite)
	if err != nil {
		return nil, err
	}

	var (
		g    errgroup.Group
		art  models.Article
		cats []models.Category
	)
	g.Go(func() error {
		var err error
		art, err = s.articles.GetArticle(ctx, sess, id)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.categories.ListCategories(ctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Editor{Article: art, Categories: cats, loaded: true}, nil
}

// Update saves changes to the article held by ed and replaces it with the
// server's copy.
func (s *ArticleService) Update(ctx context.Context, ed *Editor, p models.ArticlePatch) (models.Article, error) {
	if !ed.Loaded() {
		return models.Article{}, ErrNotLoaded
	}
	sess, err := authorize(s.sessions, canWrite)
	if err != nil {
		return models.Article{}, err
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.Article{}, rejected("updateArticle", "Failed to update article", "title is required")
	}
	if p.CategoryID != nil && !containsCategory(ed.Categories, *p.CategoryID) {
		return models.Article{}, rejected("updateArticle", "Failed to update article", "pick a category from the list")
	}
	a, err := s.articles.UpdateArticle(ctx, sess, ed.Article.ID, p)
	if err != nil {
		return models.Article{}, err
	}
	ed.Article = a
	return a, nil
}

// rejected reports input refused before any request is sent, in the same
// shape the client uses for its own checks.
func rejected(op, failure, what string) error {
	return &api.RequestFailedError{
		Op:      op,
		Message: failure + ": " + what,
		Err:     fmt.Errorf("%w: %s", api.ErrInvalidInput, what),
	}
}

func containsCategory(cats []models.Category, id int64) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}
