package service

import (
	"context"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// CategoryService backs category pickers and the category management screen.
type CategoryService struct {
	api      CategoryAPI
	sessions session.Provider
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(a CategoryAPI, sessions session.Provider) *CategoryService {
	return &CategoryService{api: a, sessions: sessions}
}

func canReadCategories(who *models.User) bool {
	return access.CanView(who, access.CategoriesRead)
}

func canWriteCategories(who *models.User) bool {
	return access.CanMutate(who, access.CategoriesWrite, 0)
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	sess, err := authorize(s.sessions, canReadCategories)
	if err != nil {
		return nil, err
	}
	return s.api.ListCategories(ctx, sess)
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	sess, err := authorize(s.sessions, canReadCategories)
	if err != nil {
		return models.Category{}, err
	}
	return s.api.GetCategory(ctx, sess, id)
}

// Create adds a category. Editors and admins only.
func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	sess, err := authorize(s.sessions, canWriteCategories)
	if err != nil {
		return models.Category{}, err
	}
	return s.api.CreateCategory(ctx, sess, in)
}

// Update renames or redescribes a category.
func (s *CategoryService) Update(ctx context.Context, id int64, p models.CategoryPatch) (models.Category, error) {
	sess, err := authorize(s.sessions, canWriteCategories)
	if err != nil {
		return models.Category{}, err
	}
	return s.api.UpdateCategory(ctx, sess, id, p)
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	sess, err := authorize(s.sessions, canWriteCategories)
	if err != nil {
		return err
	}
	return s.api.DeleteCategory(ctx, sess, id)
}
