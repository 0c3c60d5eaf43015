// Package access decides which screens a user may open and which mutations a
// user may attempt. Every function here is pure and never fails: an absent
// identity or an unrecognised role gets no permissions.
package access

import "github.com/atinyakov/blogmanager/internal/models"

// Resource names a guarded (collection, access) pair.
type Resource string

// Guarded resources. Reads open list and detail screens; writes cover create,
// edit and delete.
const (
	ArticlesRead    Resource = "articles.read"
	ArticlesWrite   Resource = "articles.write"
	CategoriesRead  Resource = "categories.read"
	CategoriesWrite Resource = "categories.write"
	UsersRead       Resource = "users.read"
	UsersWrite      Resource = "users.write"
)

var everyone = []models.Role{models.RoleVisitor, models.RoleEditor, models.RoleAdmin}

var grants = map[Resource][]models.Role{
	ArticlesRead:    everyone,
	ArticlesWrite:   {models.RoleEditor, models.RoleAdmin},
	CategoriesRead:  everyone,
	CategoriesWrite: {models.RoleEditor, models.RoleAdmin},
	UsersRead:       {models.RoleAdmin},
	UsersWrite:      {models.RoleAdmin},
}

// Allowed reports whether role holds res.
func Allowed(role models.Role, res Resource) bool {
	role = role.Canonical()
	if role == "" {
		return false
	}
	for _, r := range grants[res] {
		if r == role {
			return true
		}
	}
	return false
}

// CanView reports whether who may see content guarded by res.
func CanView(who *models.User, res Resource) bool {
	return who != nil && Allowed(who.Role, res)
}

// CanMutate reports whether who may write through res. target is the id of the
// record being changed, or 0 for a creation. On users.write an identity may
// never target its own account.
func CanMutate(who *models.User, res Resource, target int64) bool {
	if who == nil || !isWrite(res) || !Allowed(who.Role, res) {
		return false
	}
	if res == UsersWrite && target != 0 && target == who.ID {
		return false
	}
	return true
}

func isWrite(res Resource) bool {
	return res == ArticlesWrite || res == CategoriesWrite || res == UsersWrite
}
