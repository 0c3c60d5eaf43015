package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

var (
	opLogin      = operation{"login", "Login failed"}
	opRegister   = operation{"register", "Registration failed"}
	opGetProfile = operation{"getProfile", "Failed to get profile"}
)

func userID(u models.User) int64 { return u.ID }

// Login exchanges credentials for a token and the matching user.
func (c *Client) Login(ctx context.Context, username, password string) (models.AuthResponse, error) {
	if username == "" || password == "" {
		return models.AuthResponse{}, invalid(opLogin, "username and password are required")
	}
	body, err := c.send(ctx, nil, call{
		op:     opLogin,
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.Credentials{Username: username, Password: password},
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return authResponse(opLogin, body)
}

// Register creates a visitor account unless role says otherwise, and logs it in.
func (c *Client) Register(ctx context.Context, username, password string, role models.Role) (models.AuthResponse, error) {
	if username == "" || password == "" {
		return models.AuthResponse{}, invalid(opRegister, "username and password are required")
	}
	if role == "" {
		role = models.RoleVisitor
	}
	body, err := c.send(ctx, nil, call{
		op:     opRegister,
		method: http.MethodPost,
		path:   "/auth/register",
		body:   models.Credentials{Username: username, Password: password, Role: role},
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return authResponse(opRegister, body)
}

// GetProfile returns the user the session token belongs to.
func (c *Client) GetProfile(ctx context.Context, s *session.Session) (models.User, error) {
	body, err := c.send(ctx, s, call{
		op:     opGetProfile,
		method: http.MethodGet,
		path:   "/auth/profile",
		auth:   authRequired,
	})
	if err != nil {
		return models.User{}, err
	}
	return one(opGetProfile, body, userID)
}

func authResponse(op operation, body []byte) (models.AuthResponse, error) {
	out, err := unwrap[models.AuthResponse](op, body)
	if err != nil {
		return out, err
	}
	if out.Token == "" || out.User.ID < 1 {
		return out, &DecodeFailedError{Op: op.name, Err: errMissingAuth}
	}
	return out, nil
}
