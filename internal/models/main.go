// Package models defines the core data structures for users, categories and articles
// exchanged with the blog API.
package models

import (
	"strings"
	"time"
)

// Role is the access level of a user as the API reports it.
type Role string

const (
	// RoleVisitor may read articles.
	RoleVisitor Role = "VISITEUR"
	// RoleEditor may additionally write articles and categories.
	RoleEditor Role = "EDITEUR"
	// RoleAdmin may additionally manage user accounts.
	RoleAdmin Role = "ADMIN"
)

// Canonical maps a role to its wire spelling. The English spellings VISITOR and
// EDITOR are accepted as aliases. Unrecognised values map to the empty role.
func (r Role) Canonical() Role {
	switch strings.ToUpper(strings.TrimSpace(string(r))) {
	case "VISITEUR", "VISITOR":
		return RoleVisitor
	case "EDITEUR", "EDITOR":
		return RoleEditor
	case "ADMIN":
		return RoleAdmin
	}
	return ""
}

// Known reports whether r is one of the recognised roles.
func (r Role) Known() bool {
	return r.Canonical() != ""
}

// User represents an account of the blog platform.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name, case-sensitive as stored.
	Username string `json:"username"`
	// Role is the access level of the user.
	Role Role `json:"role"`
	// CreatedAt is set by the server when known.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Category groups articles.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Article is a blog post. Category and Author are snapshots the server may attach;
// they are nil when absent from the payload.
type Article struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CategoryID int64      `json:"categoryId"`
	Category   *Category  `json:"category,omitempty"`
	AuthorID   int64      `json:"authorId"`
	Author     *User      `json:"author,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Paragraphs splits the article content on newlines, dropping blank lines.
func (a Article) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(a.Content, "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// PageCount returns ceil(total/limit), or 0 when limit is not positive.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Credentials is the payload of login and register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Role is only sent on registration.
	Role Role `json:"role,omitempty"`
}

// ArticleFilter holds the optional query options of an article listing.
// Zero values are left out of the request so the server defaults apply.
type ArticleFilter struct {
	Page     int
	Limit    int
	Category int64
	Search   string
}

// ArticleInput is the payload of article creation.
type ArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"categoryId"`
	AuthorID   int64  `json:"authorId"`
}

// ArticlePatch is the payload of an article update. The author cannot be changed.
type ArticlePatch struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"categoryId,omitempty"`
}

// CategoryInput is the payload of category creation.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CategoryPatch is the payload of a category update.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UserInput is the payload of user creation. The password is never returned.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserPatch is the payload of a user update.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}
