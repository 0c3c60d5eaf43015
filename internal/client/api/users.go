package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

var (
	opListUsers  = operation{"listUsers", "Failed to fetch users"}
	opGetUser    = operation{"getUser", "Failed to fetch user"}
	opCreateUser = operation{"createUser", "Failed to create user"}
	opUpdateUser = operation{"updateUser", "Failed to update user"}
	opDeleteUser = operation{"deleteUser", "Failed to delete user"}
)

// ListUsers returns every account. It always needs a token.
func (c *Client) ListUsers(ctx context.Context, s *session.Session) ([]models.User, error) {
	body, err := c.send(ctx, s, call{
		op:     opListUsers,
		method: http.MethodGet,
		path:   "/users",
		auth:   authRequired,
	})
	if err != nil {
		return nil, err
	}
	return many[models.User](opListUsers, body)
}

// GetUser returns one account.
func (c *Client) GetUser(ctx context.Context, s *session.Session, id int64) (models.User, error) {
	if id < 1 {
		return models.User{}, invalid(opGetUser, "missing user id")
	}
	body, err := c.send(ctx, s, call{
		op:     opGetUser,
		method: http.MethodGet,
		path:   itemPath("users", id),
		auth:   authRequired,
	})
	if err != nil {
		return models.User{}, err
	}
	return one(opGetUser, body, userID)
}

// CreateUser creates an account. The password is sent once and never read back.
func (c *Client) CreateUser(ctx context.Context, s *session.Session, in models.UserInput) (models.User, error) {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return models.User{}, invalid(opCreateUser, "username is required")
	case in.Password == "":
		return models.User{}, invalid(opCreateUser, "password is required")
	case !in.Role.Known():
		return models.User{}, invalid(opCreateUser, "unknown role")
	}
	in.Role = in.Role.Canonical()
	body, err := c.send(ctx, s, call{
		op:     opCreateUser,
		method: http.MethodPost,
		path:   "/users",
		body:   in,
		auth:   authRequired,
	})
	if err != nil {
		return models.User{}, err
	}
	return one(opCreateUser, body, userID)
}

// UpdateUser changes the username or role of an account.
func (c *Client) UpdateUser(ctx context.Context, s *session.Session, id int64, p models.UserPatch) (models.User, error) {
	if id < 1 {
		return models.User{}, invalid(opUpdateUser, "missing user id")
	}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return models.User{}, invalid(opUpdateUser, "username is required")
	}
	if p.Role != nil {
		if !p.Role.Known() {
			return models.User{}, invalid(opUpdateUser, "unknown role")
		}
		r := p.Role.Canonical()
		p.Role = &r
	}
	body, err := c.send(ctx, s, call{
		op:     opUpdateUser,
		method: http.MethodPut,
		path:   itemPath("users", id),
		body:   p,
		auth:   authRequired,
	})
	if err != nil {
		return models.User{}, err
	}
	return one(opUpdateUser, body, userID)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, s *session.Session, id int64) error {
	if id < 1 {
		return invalid(opDeleteUser, "missing user id")
	}
	_, err := c.send(ctx, s, call{
		op:     opDeleteUser,
		method: http.MethodDelete,
		path:   itemPath("users", id),
		auth:   authRequired,
	})
	return err
}
