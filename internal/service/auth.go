package service

import (
	"context"

	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// AuthService logs users in and out. It is the only writer of the session store.
type AuthService struct {
	api   AuthAPI
	store *session.Store
}

// NewAuthService constructs an AuthService writing to store.
func NewAuthService(a AuthAPI, store *session.Store) *AuthService {
	return &AuthService{api: a, store: store}
}

// Login authenticates and stores the new session. A failed login leaves the
// previous session untouched.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, error) {
	ar, err := s.api.Login(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	s.store.Set(session.Session{User: ar.User, Token: ar.Token})
	return ar.User, nil
}

// Register creates an account and logs it in. An empty role registers a visitor.
func (s *AuthService) Register(ctx context.Context, username, password string, role models.Role) (models.User, error) {
	ar, err := s.api.Register(ctx, username, password, role)
	if err != nil {
		return models.User{}, err
	}
	s.store.Set(session.Session{User: ar.User, Token: ar.Token})
	return ar.User, nil
}

// Logout drops the session.
func (s *AuthService) Logout() {
	s.store.Clear()
}

// Refresh reloads the profile of the logged-in user so that a role changed on
// the server applies to the next access check.
func (s *AuthService) Refresh(ctx context.Context) (models.User, error) {
	cur, ok := s.store.Current()
	if !ok {
		return models.User{}, api.ErrUnauthenticated
	}
	u, err := s.api.GetProfile(ctx, cur)
	if err != nil {
		return models.User{}, err
	}
	s.store.Set(session.Session{User: u, Token: cur.Token})
	return u, nil
}
