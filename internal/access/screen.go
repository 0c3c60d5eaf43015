package access

import "github.com/atinyakov/blogmanager/internal/models"

// Screen identifies a view of the client.
type Screen string

const (
	Dashboard     Screen = "dashboard"
	ArticleList   Screen = "articles"
	ArticleDetail Screen = "article"
	ArticleNew    Screen = "article-new"
	ArticleEdit   Screen = "article-edit"
	CategoryAdmin Screen = "categories"
	UserAdmin     Screen = "users"
)

// requirement is the resource a screen needs before it renders. An empty value
// means any authenticated identity is enough.
//
// The category screen asks for categories.write even to list, while article
// screens show category names to every role. Both behaviours are kept.
var requirement = map[Screen]Resource{
	Dashboard:     "",
	ArticleList:   ArticlesRead,
	ArticleDetail: ArticlesRead,
	ArticleNew:    ArticlesWrite,
	ArticleEdit:   ArticlesWrite,
	CategoryAdmin: CategoriesWrite,
	UserAdmin:     UsersRead,
}

// CanOpen reports whether who may render s. Unknown screens are denied.
func CanOpen(who *models.User, s Screen) bool {
	res, ok := requirement[s]
	if !ok || who == nil || !who.Role.Known() {
		return false
	}
	if res == "" {
		return true
	}
	return CanView(who, res)
}

// Navigation lists the screens who may reach from the menu, in menu order.
func Navigation(who *models.User) []Screen {
	var out []Screen
	for _, s := range []Screen{Dashboard, ArticleList, CategoryAdmin, UserAdmin} {
		if CanOpen(who, s) {
			out = append(out, s)
		}
	}
	return out
}
