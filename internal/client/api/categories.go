package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

var (
	opListCategories = operation{"listCategories", "Failed to fetch categories"}
	opGetCategory    = operation{"getCategory", "Failed to fetch category"}
	opCreateCategory = operation{"createCategory", "Failed to create category"}
	opUpdateCategory = operation{"updateCategory", "Failed to update category"}
	opDeleteCategory = operation{"deleteCategory", "Failed to delete category"}
)

func categoryID(c models.Category) int64 { return c.ID }

// ListCategories returns every category. The endpoint is not paginated.
func (c *Client) ListCategories(ctx context.Context, s *session.Session) ([]models.Category, error) {
	body, err := c.send(ctx, s, call{
		op:     opListCategories,
		method: http.MethodGet,
		path:   "/categories",
		auth:   authOptional,
	})
	if err != nil {
		return nil, err
	}
	return many[models.Category](opListCategories, body)
}

// GetCategory returns one category.
func (c *Client) GetCategory(ctx context.Context, s *session.Session, id int64) (models.Category, error) {
	if id < 1 {
		return models.Category{}, invalid(opGetCategory, "missing category id")
	}
	body, err := c.send(ctx, s, call{
		op:     opGetCategory,
		method: http.MethodGet,
		path:   itemPath("categories", id),
		auth:   authOptional,
	})
	if err != nil {
		return models.Category{}, err
	}
	return one(opGetCategory, body, categoryID)
}

// CreateCategory stores a new category.
func (c *Client) CreateCategory(ctx context.Context, s *session.Session, in models.CategoryInput) (models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Category{}, invalid(opCreateCategory, "name is required")
	}
	body, err := c.send(ctx, s, call{
		op:     opCreateCategory,
		method: http.MethodPost,
		path:   "/categories",
		body:   in,
		auth:   authRequired,
	})
	if err != nil {
		return models.Category{}, err
	}
	return one(opCreateCategory, body, categoryID)
}

// UpdateCategory changes the name or description of a category.
func (c *Client) UpdateCategory(ctx context.Context, s *session.Session, id int64, p models.CategoryPatch) (models.Category, error) {
	if id < 1 {
		return models.Category{}, invalid(opUpdateCategory, "missing category id")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return models.Category{}, invalid(opUpdateCategory, "name is required")
	}
	body, err := c.send(ctx, s, call{
		op:     opUpdateCategory,
		method: http.MethodPut,
		path:   itemPath("categories", id),
		body:   p,
		auth:   authRequired,
	})
	if err != nil {
		return models.Category{}, err
	}
	return one(opUpdateCategory, body, categoryID)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, s *session.Session, id int64) error {
	if id < 1 {
		return invalid(opDeleteCategory, "missing category id")
	}
	_, err := c.send(ctx, s, call{
		op:     opDeleteCategory,
		method: http.MethodDelete,
		path:   itemPath("categories", id),
		auth:   authRequired,
	})
	return err
}
