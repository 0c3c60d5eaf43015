package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

var (
	opListArticles  = operation{"listArticles", "Failed to fetch articles"}
	opGetArticle    = operation{"getArticle", "Failed to fetch article"}
	opCreateArticle = operation{"createArticle", "Failed to create article"}
	opUpdateArticle = operation{"updateArticle", "Failed to update article"}
	opDeleteArticle = operation{"deleteArticle", "Failed to delete article"}
)

func articleID(a models.Article) int64 { return a.ID }

// articleQuery keeps only the options that were set.
func articleQuery(f models.ArticleFilter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category > 0 {
		q.Set("category", strconv.FormatInt(f.Category, 10))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// ListArticles returns one page of articles. TotalPages is recomputed from
// Total and Limit so it always equals ceil(total/limit).
func (c *Client) ListArticles(ctx context.Context, s *session.Session, f models.ArticleFilter) (models.Page[models.Article], error) {
	body, err := c.send(ctx, s, call{
		op:     opListArticles,
		method: http.MethodGet,
		path:   "/articles",
		query:  articleQuery(f),
		auth:   authOptional,
	})
	if err != nil {
		return models.Page[models.Article]{}, err
	}

	p, err := decodePage(opListArticles, body)
	if err != nil {
		return p, err
	}
	if p.Limit <= 0 {
		p.Limit = f.Limit
	}
	if p.Page <= 0 {
		p.Page = max(f.Page, 1)
	}
	if p.Limit > 0 {
		p.TotalPages = models.PageCount(p.Total, p.Limit)
	}
	return p, nil
}

// GetArticle returns one article.
func (c *Client) GetArticle(ctx context.Context, s *session.Session, id int64) (models.Article, error) {
	if id < 1 {
		return models.Article{}, invalid(opGetArticle, "missing article id")
	}
	body, err := c.send(ctx, s, call{
		op:     opGetArticle,
		method: http.MethodGet,
		path:   itemPath("articles", id),
		auth:   authOptional,
	})
	if err != nil {
		return models.Article{}, err
	}
	return one(opGetArticle, body, articleID)
}

// CreateArticle stores a new article. The category is referenced by id only.
func (c *Client) CreateArticle(ctx context.Context, s *session.Session, in models.ArticleInput) (models.Article, error) {
	switch {
	case in.Title == "":
		return models.Article{}, invalid(opCreateArticle, "title is required")
	case in.CategoryID < 1:
		return models.Article{}, invalid(opCreateArticle, "category is required")
	case in.AuthorID < 1:
		return models.Article{}, invalid(opCreateArticle, "author is required")
	}
	body, err := c.send(ctx, s, call{
		op:     opCreateArticle,
		method: http.MethodPost,
		path:   "/articles",
		body:   in,
		auth:   authRequired,
	})
	if err != nil {
		return models.Article{}, err
	}
	return one(opCreateArticle, body, articleID)
}

// UpdateArticle changes the title, content or category of an article.
func (c *Client) UpdateArticle(ctx context.Context, s *session.Session, id int64, p models.ArticlePatch) (models.Article, error) {
	if id < 1 {
		return models.Article{}, invalid(opUpdateArticle, "missing article id")
	}
	if p.CategoryID != nil && *p.CategoryID < 1 {
		return models.Article{}, invalid(opUpdateArticle, "category is required")
	}
	body, err := c.send(ctx, s, call{
		op:     opUpdateArticle,
		method: http.MethodPut,
		path:   itemPath("articles", id),
		body:   p,
		auth:   authRequired,
	})
	if err != nil {
		return models.Article{}, err
	}
	return one(opUpdateArticle, body, articleID)
}

// DeleteArticle removes an article. Success is decided by the status alone.
func (c *Client) DeleteArticle(ctx context.Context, s *session.Session, id int64) error {
	if id < 1 {
		return invalid(opDeleteArticle, "missing article id")
	}
	_, err := c.send(ctx, s, call{
		op:     opDeleteArticle,
		method: http.MethodDelete,
		path:   itemPath("articles", id),
		auth:   authRequired,
	})
	return err
}
