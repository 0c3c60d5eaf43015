package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/atinyakov/blogmanager/internal/models"
)

// PostgresStore implements Store against a PostgreSQL database.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a PostgresStore with the given database connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// mapErr translates driver errors into the errors of this package.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrInvalidReference
		}
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// CreateUser inserts an account.
func (s *PostgresStore) CreateUser(ctx context.Context, username string, hash []byte, role models.Role) (models.User, error) {
	u := models.User{Username: username, Role: role}
	var created time.Time
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`,
		username, hash, string(role),
	).Scan(&u.ID, &created)
	if err != nil {
		return models.User{}, fmt.Errorf("CreateUser: %w", mapErr(err))
	}
	u.CreatedAt = timePtr(created)
	return u, nil
}

// UserByUsername returns an account and its password hash.
func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (models.User, []byte, error) {
	var (
		u       models.User
		role    string
		created time.Time
		hash    []byte
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, role, created_at, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &role, &created, &hash)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("UserByUsername: %w", mapErr(err))
	}
	u.Role = models.Role(role)
	u.CreatedAt = timePtr(created)
	return u, hash, nil
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u       models.User
		role    string
		created time.Time
	)
	if err := row.Scan(&u.ID, &u.Username, &role, &created); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	u.CreatedAt = timePtr(created)
	return u, nil
}

// UserByID returns an account.
func (s *PostgresStore) UserByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT id, username, role, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		return models.User{}, fmt.Errorf("UserByID: %w", mapErr(err))
	}
	return u, nil
}

// ListUsers returns every account ordered by id.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, username, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies p to an account.
func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, p models.UserPatch) (models.User, error) {
	var role *string
	if p.Role != nil {
		r := string(*p.Role)
		role = &r
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, `
		UPDATE users
		   SET username = COALESCE($2, username),
		       role = COALESCE($3, role)
		 WHERE id = $1
		RETURNING id, username, role, created_at
	`, id, p.Username, role))
	if err != nil {
		return models.User{}, fmt.Errorf("UpdateUser: %w", mapErr(err))
	}
	return u, nil
}

// DeleteUser removes an account. Its articles go with it.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	return affected(res)
}

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var (
		c       models.Category
		desc    sql.NullString
		created time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &desc, &created); err != nil {
		return models.Category{}, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	c.CreatedAt = timePtr(created)
	return c, nil
}

// ListCategories returns every category ordered by id.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryByID returns a category.
func (s *PostgresStore) CategoryByID(ctx context.Context, id int64) (models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = $1`, id))
	if err != nil {
		return models.Category{}, fmt.Errorf("CategoryByID: %w", mapErr(err))
	}
	return c, nil
}

// CreateCategory inserts a category.
func (s *PostgresStore) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, name, description, created_at`,
		in.Name, in.Description))
	if err != nil {
		return models.Category{}, fmt.Errorf("CreateCategory: %w", mapErr(err))
	}
	return c, nil
}

// UpdateCategory applies p to a category.
func (s *PostgresStore) UpdateCategory(ctx context.Context, id int64, p models.CategoryPatch) (models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx, `
		UPDATE categories
		   SET name = COALESCE($2, name),
		       description = COALESCE($3, description)
		 WHERE id = $1
		RETURNING id, name, description, created_at
	`, id, p.Name, p.Description))
	if err != nil {
		return models.Category{}, fmt.Errorf("UpdateCategory: %w", mapErr(err))
	}
	return c, nil
}

// DeleteCategory removes a category and its articles.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	return affected(res)
}

const articleColumns = `
	SELECT a.id, a.title, a.content, a.category_id, a.author_id, a.created_at, a.updated_at,
	       c.id, c.name, c.description, c.created_at,
	       u.id, u.username, u.role, u.created_at
	  FROM articles a
	  LEFT JOIN categories c ON c.id = a.category_id
	  LEFT JOIN users u ON u.id = a.author_id`

func scanArticle(row interface{ Scan(...any) error }) (models.Article, error) {
	var (
		a                models.Article
		created, updated time.Time
		catID            sql.NullInt64
		catName, catDesc sql.NullString
		catCreated       sql.NullTime
		userID           sql.NullInt64
		userName, role   sql.NullString
		userCreated      sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.CategoryID, &a.AuthorID, &created, &updated,
		&catID, &catName, &catDesc, &catCreated,
		&userID, &userName, &role, &userCreated)
	if err != nil {
		return models.Article{}, err
	}
	a.CreatedAt = timePtr(created)
	a.UpdatedAt = timePtr(updated)
	if catID.Valid {
		c := models.Category{ID: catID.Int64, Name: catName.String}
		if catDesc.Valid {
			c.Description = &catDesc.String
		}
		if catCreated.Valid {
			c.CreatedAt = timePtr(catCreated.Time)
		}
		a.Category = &c
	}
	if userID.Valid {
		u := models.User{ID: userID.Int64, Username: userName.String, Role: models.Role(role.String)}
		if userCreated.Valid {
			u.CreatedAt = timePtr(userCreated.Time)
		}
		a.Author = &u
	}
	return a, nil
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// ListArticles returns the newest articles first and the number of matches.
func (s *PostgresStore) ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, int, error) {
	var (
		where []string
		args  []any
	)
	if q.Category > 0 {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d)", len(args), len(args)))
	}
	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles a`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListArticles count: %w", err)
	}

	pageArgs := append(append([]any{}, args...), q.Limit, q.Offset())
	query := articleColumns + filter +
		fmt.Sprintf(" ORDER BY a.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListArticles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, total, rows.Err()
}

// ArticleByID returns an article with its snapshots.
func (s *PostgresStore) ArticleByID(ctx context.Context, id int64) (models.Article, error) {
	a, err := scanArticle(s.DB.QueryRowContext(ctx, articleColumns+` WHERE a.id = $1`, id))
	if err != nil {
		return models.Article{}, fmt.Errorf("ArticleByID: %w", mapErr(err))
	}
	return a, nil
}

// CreateArticle inserts an article and reads it back with its snapshots.
func (s *PostgresStore) CreateArticle(ctx context.Context, in models.ArticleInput) (models.Article, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO articles (title, content, category_id, author_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		in.Title, in.Content, in.CategoryID, in.AuthorID,
	).Scan(&id)
	if err != nil {
		return models.Article{}, fmt.Errorf("CreateArticle: %w", mapErr(err))
	}
	return s.ArticleByID(ctx, id)
}

// UpdateArticle applies p. updated_at only moves when a value changed.
func (s *PostgresStore) UpdateArticle(ctx context.Context, id int64, p models.ArticlePatch) (models.Article, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE articles
		   SET title = COALESCE($2, title),
		       content = COALESCE($3, content),
		       category_id = COALESCE($4, category_id),
		       updated_at = CASE
		           WHEN (COALESCE($2, title), COALESCE($3, content), COALESCE($4, category_id))
		                IS DISTINCT FROM (title, content, category_id) THEN now()
		           ELSE updated_at
		       END
		 WHERE id = $1
	`, id, p.Title, p.Content, p.CategoryID)
	if err != nil {
		return models.Article{}, fmt.Errorf("UpdateArticle: %w", mapErr(err))
	}
	if err := affected(res); err != nil {
		return models.Article{}, fmt.Errorf("UpdateArticle: %w", err)
	}
	return s.ArticleByID(ctx, id)
}

// DeleteArticle removes an article.
func (s *PostgresStore) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteArticle: %w", err)
	}
	return affected(res)
}
