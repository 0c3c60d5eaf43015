package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/blogmanager/internal/models"
)

type memUser struct {
	user models.User
	hash []byte
}

// MemoryStore keeps everything in maps guarded by one mutex.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]memUser
	categories map[int64]models.Category
	articles   map[int64]models.Article
	lastID     int64
	now        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]memUser),
		categories: make(map[int64]models.Category),
		articles:   make(map[int64]models.Article),
		now:        time.Now,
	}
}

func (m *MemoryStore) nextID() int64 {
	m.lastID++
	return m.lastID
}

func (m *MemoryStore) stamp() *time.Time {
	t := m.now().UTC()
	return &t
}

// CreateUser adds an account. Usernames are unique, case-sensitive.
func (m *MemoryStore) CreateUser(_ context.Context, username string, hash []byte, role models.Role) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.user.Username == username {
			return models.User{}, ErrConflict
		}
	}
	u := models.User{ID: m.nextID(), Username: username, Role: role, CreatedAt: m.stamp()}
	m.users[u.ID] = memUser{user: u, hash: hash}
	return u, nil
}

// UserByUsername returns an account and its password hash.
func (m *MemoryStore) UserByUsername(_ context.Context, username string) (models.User, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.user.Username == username {
			return u.user, u.hash, nil
		}
	}
	return models.User{}, nil, ErrNotFound
}

// UserByID returns an account.
func (m *MemoryStore) UserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u.user, nil
}

// ListUsers returns every account ordered by id.
func (m *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateUser applies p to an account.
func (m *MemoryStore) UpdateUser(_ context.Context, id int64, p models.UserPatch) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if p.Username != nil && *p.Username != u.user.Username {
		for oid, o := range m.users {
			if oid != id && o.user.Username == *p.Username {
				return models.User{}, ErrConflict
			}
		}
		u.user.Username = *p.Username
	}
	if p.Role != nil {
		u.user.Role = *p.Role
	}
	m.users[id] = u
	return u.user, nil
}

// DeleteUser removes an account and its articles.
func (m *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	for aid, a := range m.articles {
		if a.AuthorID == id {
			delete(m.articles, aid)
		}
	}
	return nil
}

// ListCategories returns every category ordered by id.
func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CategoryByID returns a category.
func (m *MemoryStore) CategoryByID(_ context.Context, id int64) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return c, nil
}

// CreateCategory adds a category. Names need not be unique.
func (m *MemoryStore) CreateCategory(_ context.Context, in models.CategoryInput) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Category{ID: m.nextID(), Name: in.Name, CreatedAt: m.stamp()}
	if in.Description != nil {
		d := *in.Description
		c.Description = &d
	}
	m.categories[c.ID] = c
	return c, nil
}

// UpdateCategory applies p to a category.
func (m *MemoryStore) UpdateCategory(_ context.Context, id int64, p models.CategoryPatch) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	m.categories[id] = c
	return c, nil
}

// DeleteCategory removes a category and the articles filed under it.
func (m *MemoryStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	for aid, a := range m.articles {
		if a.CategoryID == id {
			delete(m.articles, aid)
		}
	}
	return nil
}

// enrich attaches snapshots. Callers hold the lock.
func (m *MemoryStore) enrich(a models.Article) models.Article {
	if c, ok := m.categories[a.CategoryID]; ok {
		a.Category = &c
	}
	if u, ok := m.users[a.AuthorID]; ok {
		author := u.user
		a.Author = &author
	}
	return a
}

// ListArticles returns the newest articles first, filtered by category and by
// a case-insensitive substring of title or content.
func (m *MemoryStore) ListArticles(_ context.Context, q ArticleQuery) ([]models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(q.Search)
	var hits []models.Article
	for _, a := range m.articles {
		if q.Category > 0 && a.CategoryID != q.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Content), needle) {
			continue
		}
		hits = append(hits, a)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })

	total := len(hits)
	start := min(q.Offset(), total)
	end := min(start+q.Limit, total)
	page := make([]models.Article, 0, end-start)
	for _, a := range hits[start:end] {
		page = append(page, m.enrich(a))
	}
	return page, total, nil
}

// ArticleByID returns an article with its snapshots.
func (m *MemoryStore) ArticleByID(_ context.Context, id int64) (models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	return m.enrich(a), nil
}

// CreateArticle adds an article. Category and author must exist.
func (m *MemoryStore) CreateArticle(_ context.Context, in models.ArticleInput) (models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[in.CategoryID]; !ok {
		return models.Article{}, ErrInvalidReference
	}
	if _, ok := m.users[in.AuthorID]; !ok {
		return models.Article{}, ErrInvalidReference
	}
	now := m.stamp()
	a := models.Article{
		ID:         m.nextID(),
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.articles[a.ID] = a
	return m.enrich(a), nil
}

// UpdateArticle applies p. The author never changes.
func (m *MemoryStore) UpdateArticle(_ context.Context, id int64, p models.ArticlePatch) (models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	before := a
	if p.CategoryID != nil {
		if _, ok := m.categories[*p.CategoryID]; !ok {
			return models.Article{}, ErrInvalidReference
		}
		a.CategoryID = *p.CategoryID
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	// an update that changes nothing leaves updated_at alone
	if a.Title != before.Title || a.Content != before.Content || a.CategoryID != before.CategoryID {
		a.UpdatedAt = m.stamp()
	}
	m.articles[id] = a
	return m.enrich(a), nil
}

// DeleteArticle removes an article.
func (m *MemoryStore) DeleteArticle(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return ErrNotFound
	}
	delete(m.articles, id)
	return nil
}
