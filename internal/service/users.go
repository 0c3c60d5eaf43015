package service

import (
	"context"
	"strings"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// UserService backs the user management screen.
type UserService struct {
	api      UserAPI
	sessions session.Provider
}

// NewUserService constructs a UserService.
func NewUserService(a UserAPI, sessions session.Provider) *UserService {
	return &UserService{api: a, sessions: sessions}
}

func canReadUsers(who *models.User) bool { return access.CanView(who, access.UsersRead) }

func canWriteUser(target int64) func(*models.User) bool {
	return func(who *models.User) bool {
		return access.CanMutate(who, access.UsersWrite, target)
	}
}

// List returns the accounts whose username contains filter, ignoring case.
// An empty filter returns all of them.
func (s *UserService) List(ctx context.Context, filter string) ([]models.User, error) {
	sess, err := authorize(s.sessions, canReadUsers)
	if err != nil {
		return nil, err
	}
	users, err := s.api.ListUsers(ctx, sess)
	if err != nil {
		return nil, err
	}
	return FilterUsers(users, filter), nil
}

// FilterUsers keeps the users whose username contains needle, ignoring case.
func FilterUsers(users []models.User, needle string) []models.User {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), needle) {
			out = append(out, u)
		}
	}
	return out
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	sess, err := authorize(s.sessions, canReadUsers)
	if err != nil {
		return models.User{}, err
	}
	return s.api.GetUser(ctx, sess, id)
}

// Editable reports whether the logged-in user may edit or delete u. Nobody
// may change their own row.
func (s *UserService) Editable(u models.User) bool {
	cur, ok := s.sessions.Current()
	return ok && access.CanMutate(cur.Identity(), access.UsersWrite, u.ID)
}

// Create adds an account. Admins only.
func (s *UserService) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	sess, err := authorize(s.sessions, canWriteUser(0))
	if err != nil {
		return models.User{}, err
	}
	return s.api.CreateUser(ctx, sess, in)
}

// Update changes another account's username or role. The caller's own
// account is refused before any request is sent.
func (s *UserService) Update(ctx context.Context, id int64, p models.UserPatch) (models.User, error) {
	sess, err := authorize(s.sessions, canWriteUser(id))
	if err != nil {
		return models.User{}, err
	}
	return s.api.UpdateUser(ctx, sess, id, p)
}

// Delete removes another account. Self-deletion is refused like Update.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	sess, err := authorize(s.sessions, canWriteUser(id))
	if err != nil {
		return err
	}
	return s.api.DeleteUser(ctx, sess, id)
}
