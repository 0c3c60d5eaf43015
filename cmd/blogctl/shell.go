package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/service"
	"github.com/atinyakov/blogmanager/internal/session"
)

// shell is the interactive loop. Every screen resolves an access gate before
// it loads anything.
type shell struct {
	*prompter
	store      *session.Store
	auth       *service.AuthService
	dashboard  *service.DashboardService
	articles   *service.ArticleService
	categories *service.CategoryService
	users      *service.UserService

	filter models.ArticleFilter
	pager  service.Pager
}

func newShell(c *api.Client, in io.Reader, out io.Writer) *shell {
	store := session.NewStore()
	return &shell{
		prompter:   newPrompter(in, out),
		store:      store,
		auth:       service.NewAuthService(c, store),
		dashboard:  service.NewDashboardService(c, c, c, store),
		articles:   service.NewArticleService(c, c, store),
		categories: service.NewCategoryService(c, store),
		users:      service.NewUserService(c, store),
		filter:     models.ArticleFilter{Page: 1, Limit: 10},
	}
}

const usage = `Commands:
  login | register | logout | whoami
  dashboard
  articles [page] | next | prev | search <text> | filter <category id|all>
  article <id> | new | edit <id> | delete <id>
  categories | category add | category edit <id> | category delete <id>
  users [filter] | user add | user edit <id> | user delete <id>
  help | exit`

func (sh *shell) run() {
	ctx := context.Background()
	for {
		fmt.Fprint(sh.out, "blog> ")
		line, ok := sh.line()
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(sh.out, "Bye")
			return
		}
		sh.dispatch(ctx, args)
	}
}

func (sh *shell) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		fmt.Fprintln(sh.out, usage)
		sh.printNavigation()
	case "login":
		sh.login(ctx)
	case "register":
		sh.register(ctx)
	case "logout":
		sh.auth.Logout()
		fmt.Fprintln(sh.out, "Logged out")
	case "whoami":
		sh.whoami(ctx)
	case "dashboard":
		sh.showDashboard(ctx)
	case "articles":
		if len(args) > 1 {
			if p, err := strconv.Atoi(args[1]); err == nil {
				sh.filter.Page = p
			}
		}
		sh.listArticles(ctx)
	case "next":
		sh.filter.Page = sh.pager.Next()
		sh.listArticles(ctx)
	case "prev":
		sh.filter.Page = sh.pager.Prev()
		sh.listArticles(ctx)
	case "search":
		sh.filter.Search = strings.Join(args[1:], " ")
		sh.filter.Page = 1
		sh.listArticles(ctx)
	case "filter":
		sh.filter.Category = 0
		if len(args) > 1 && args[1] != "all" {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Fprintln(sh.out, "Usage: filter <category id|all>")
				return
			}
			sh.filter.Category = id
		}
		sh.filter.Page = 1
		sh.listArticles(ctx)
	case "article":
		if id, ok := idArg(sh, args, "article <id>"); ok {
			sh.showArticle(ctx, id)
		}
	case "new":
		sh.newArticle(ctx)
	case "edit":
		if id, ok := idArg(sh, args, "edit <id>"); ok {
			sh.editArticle(ctx, id)
		}
	case "delete":
		if id, ok := idArg(sh, args, "delete <id>"); ok {
			sh.deleteArticle(ctx, id)
		}
	case "categories":
		sh.listCategories(ctx)
	case "category":
		sh.categoryCommand(ctx, args[1:])
	case "users":
		sh.listUsers(ctx, strings.Join(args[1:], " "))
	case "user":
		sh.userCommand(ctx, args[1:])
	default:
		fmt.Fprintln(sh.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func idArg(sh *shell, args []string, use string) (int64, bool) {
	if len(args) < 2 {
		fmt.Fprintln(sh.out, "Usage:", use)
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id < 1 {
		fmt.Fprintln(sh.out, "Usage:", use)
		return 0, false
	}
	return id, true
}

func (sh *shell) identity() *models.User {
	cur, _ := sh.store.Current()
	return cur.Identity()
}

// open resolves the gate of s for the current identity and prints the
// refusal when it is denied.
func (sh *shell) open(s access.Screen) bool {
	g := access.NewGate(s)
	if g.Resolve(sh.identity()) == access.Granted {
		return true
	}
	if g.NeedsLogin() {
		fmt.Fprintln(sh.out, api.Describe(api.ErrUnauthenticated))
	} else {
		fmt.Fprintln(sh.out, "Access denied: you don't have permission to view this page")
	}
	return false
}

func (sh *shell) fail(err error) {
	fmt.Fprintln(sh.out, "Error:", api.Describe(err))
}

func (sh *shell) printNavigation() {
	nav := access.Navigation(sh.identity())
	if len(nav) == 0 {
		fmt.Fprintln(sh.out, "Not logged in. Use 'login' or 'register'.")
		return
	}
	names := make([]string, len(nav))
	for i, s := range nav {
		names[i] = string(s)
	}
	fmt.Fprintln(sh.out, "Menu:", strings.Join(names, " | "))
}

func (sh *shell) login(ctx context.Context) {
	username, _ := sh.ask("Username")
	password, _ := sh.ask("Password")
	u, err := sh.auth.Login(ctx, username, password)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Welcome, %s (%s)\n", u.Username, u.Role)
	sh.printNavigation()
}

func (sh *shell) register(ctx context.Context) {
	username, _ := sh.ask("Username")
	password, _ := sh.ask("Password")
	role, _ := sh.ask("Role (VISITEUR/EDITEUR/ADMIN, empty for VISITEUR)")
	u, err := sh.auth.Register(ctx, username, password, models.Role(role))
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Account created. Welcome, %s (%s)\n", u.Username, u.Role)
	sh.printNavigation()
}

func (sh *shell) whoami(ctx context.Context) {
	u, err := sh.auth.Refresh(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "%s (%s), id %d\n", u.Username, u.Role, u.ID)
}

func (sh *shell) showDashboard(ctx context.Context) {
	if !sh.open(access.Dashboard) {
		return
	}
	st, err := sh.dashboard.Stats(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Articles:   %d\nCategories: %d\n", st.Articles, st.Categories)
	if st.Users != nil {
		fmt.Fprintf(sh.out, "Users:      %d\n", *st.Users)
	}
}

func (sh *shell) listArticles(ctx context.Context) {
	if !sh.open(access.ArticleList) {
		return
	}
	page, pager, err := sh.articles.List(ctx, sh.filter)
	if err != nil {
		sh.fail(err)
		fmt.Fprintln(sh.out, "No articles")
		return
	}
	sh.pager = pager
	sh.filter.Page = pager.Page
	if len(page.Items) == 0 {
		fmt.Fprintln(sh.out, "No articles")
	}
	for _, a := range page.Items {
		fmt.Fprintf(sh.out, "#%d  %s%s\n", a.ID, a.Title, byline(a))
	}
	fmt.Fprintf(sh.out, "Page %d of %d (%d articles)\n", pager.Page, max(pager.TotalPages, 1), page.Total)
}

func byline(a models.Article) string {
	var parts []string
	if a.Category != nil {
		parts = append(parts, "["+a.Category.Name+"]")
	}
	if a.Author != nil {
		parts = append(parts, "by "+a.Author.Username)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func (sh *shell) showArticle(ctx context.Context, id int64) {
	if !sh.open(access.ArticleDetail) {
		return
	}
	a, err := sh.articles.Get(ctx, id)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "%s%s\n\n", a.Title, byline(a))
	for _, p := range a.Paragraphs() {
		fmt.Fprintln(sh.out, p)
		fmt.Fprintln(sh.out)
	}
	if a.UpdatedAt != nil {
		fmt.Fprintln(sh.out, "Last updated:", a.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func (sh *shell) printCategories(cats []models.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(sh.out, "No categories")
	}
	for _, c := range cats {
		desc := ""
		if c.Description != nil && *c.Description != "" {
			desc = "  " + *c.Description
		}
		fmt.Fprintf(sh.out, "  %d) %s%s\n", c.ID, c.Name, desc)
	}
}

// retry runs submit until it succeeds or the user gives up. The answers
// already collected are kept between attempts.
func (sh *shell) retry(submit func() error) bool {
	for {
		err := submit()
		if err == nil {
			return true
		}
		sh.fail(err)
		if !sh.confirm("Retry") {
			return false
		}
	}
}

func (sh *shell) newArticle(ctx context.Context) {
	if !sh.open(access.ArticleNew) {
		return
	}
	cats, err := sh.articles.NewArticleForm(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	title, _ := sh.ask("Title")
	content, _ := sh.askText("Content")
	sh.printCategories(cats)
	catID, ok := sh.askID("Category id")
	if !ok {
		return
	}
	var created models.Article
	if sh.retry(func() error {
		created, err = sh.articles.Create(ctx, title, content, catID, cats)
		return err
	}) {
		fmt.Fprintf(sh.out, "Article #%d created\n", created.ID)
		sh.listArticles(ctx)
	}
}

func (sh *shell) editArticle(ctx context.Context, id int64) {
	if !sh.open(access.ArticleEdit) {
		return
	}
	ed, err := sh.articles.OpenEditor(ctx, id)
	if err != nil {
		sh.fail(err)
		return
	}
	var patch models.ArticlePatch
	if title, _ := sh.askDefault("Title", ed.Article.Title); title != ed.Article.Title {
		patch.Title = &title
	}
	if sh.confirm("Replace content") {
		content, _ := sh.askText("Content")
		patch.Content = &content
	}
	sh.printCategories(ed.Categories)
	cur := strconv.FormatInt(ed.Article.CategoryID, 10)
	if v, _ := sh.askDefault("Category id", cur); v != cur {
		catID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fmt.Fprintln(sh.out, "Please enter a positive number")
			return
		}
		patch.CategoryID = &catID
	}
	if sh.retry(func() error {
		_, err := sh.articles.Update(ctx, ed, patch)
		return err
	}) {
		fmt.Fprintln(sh.out, "Article updated")
		sh.showArticle(ctx, id)
	}
}

func (sh *shell) deleteArticle(ctx context.Context, id int64) {
	if !sh.open(access.ArticleEdit) {
		return
	}
	if !sh.confirm(fmt.Sprintf("Delete article #%d", id)) {
		return
	}
	if err := sh.articles.Delete(ctx, id); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Article deleted")
	sh.listArticles(ctx)
}

func (sh *shell) listCategories(ctx context.Context) {
	if !sh.open(access.CategoryAdmin) {
		return
	}
	cats, err := sh.categories.List(ctx)
	if err != nil {
		sh.fail(err)
		cats = nil
	}
	sh.printCategories(cats)
}

func (sh *shell) categoryCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.out, "Usage: category add | edit <id> | delete <id>")
		return
	}
	if !sh.open(access.CategoryAdmin) {
		return
	}
	switch args[0] {
	case "add":
		name, _ := sh.ask("Name")
		desc, _ := sh.ask("Description (optional)")
		in := models.CategoryInput{Name: name}
		if desc != "" {
			in.Description = &desc
		}
		if sh.retry(func() error { _, err := sh.categories.Create(ctx, in); return err }) {
			fmt.Fprintln(sh.out, "Category created")
			sh.listCategories(ctx)
		}
	case "edit":
		id, ok := idArg(sh, args, "category edit <id>")
		if !ok {
			return
		}
		c, err := sh.categories.Get(ctx, id)
		if err != nil {
			sh.fail(err)
			return
		}
		var patch models.CategoryPatch
		if name, _ := sh.askDefault("Name", c.Name); name != c.Name {
			patch.Name = &name
		}
		old := ""
		if c.Description != nil {
			old = *c.Description
		}
		if desc, _ := sh.askDefault("Description", old); desc != old {
			patch.Description = &desc
		}
		if sh.retry(func() error { _, err := sh.categories.Update(ctx, id, patch); return err }) {
			fmt.Fprintln(sh.out, "Category updated")
			sh.listCategories(ctx)
		}
	case "delete":
		id, ok := idArg(sh, args, "category delete <id>")
		if !ok || !sh.confirm(fmt.Sprintf("Delete category #%d and its articles", id)) {
			return
		}
		if err := sh.categories.Delete(ctx, id); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintln(sh.out, "Category deleted")
		sh.listCategories(ctx)
	default:
		fmt.Fprintln(sh.out, "Usage: category add | edit <id> | delete <id>")
	}
}

func (sh *shell) listUsers(ctx context.Context, filter string) {
	if !sh.open(access.UserAdmin) {
		return
	}
	users, err := sh.users.List(ctx, filter)
	if err != nil {
		sh.fail(err)
		users = nil
	}
	if len(users) == 0 {
		fmt.Fprintln(sh.out, "No users")
	}
	for _, u := range users {
		mark := ""
		if !sh.users.Editable(u) {
			mark = "  (you)"
		}
		fmt.Fprintf(sh.out, "  %d) %s  %s%s\n", u.ID, u.Username, u.Role, mark)
	}
}

func (sh *shell) userCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.out, "Usage: user add | edit <id> | delete <id>")
		return
	}
	if !sh.open(access.UserAdmin) {
		return
	}
	switch args[0] {
	case "add":
		username, _ := sh.ask("Username")
		password, _ := sh.ask("Password")
		role, _ := sh.ask("Role (VISITEUR/EDITEUR/ADMIN)")
		in := models.UserInput{Username: username, Password: password, Role: models.Role(role)}
		if sh.retry(func() error { _, err := sh.users.Create(ctx, in); return err }) {
			fmt.Fprintln(sh.out, "User created")
			sh.listUsers(ctx, "")
		}
	case "edit":
		id, ok := idArg(sh, args, "user edit <id>")
		if !ok {
			return
		}
		u, err := sh.users.Get(ctx, id)
		if err != nil {
			sh.fail(err)
			return
		}
		if !sh.users.Editable(u) {
			fmt.Fprintln(sh.out, "You cannot modify your own account here")
			return
		}
		var patch models.UserPatch
		if name, _ := sh.askDefault("Username", u.Username); name != u.Username {
			patch.Username = &name
		}
		if role, _ := sh.askDefault("Role", string(u.Role)); models.Role(role) != u.Role {
			r := models.Role(role)
			patch.Role = &r
		}
		if sh.retry(func() error { _, err := sh.users.Update(ctx, id, patch); return err }) {
			fmt.Fprintln(sh.out, "User updated")
			sh.listUsers(ctx, "")
		}
	case "delete":
		id, ok := idArg(sh, args, "user delete <id>")
		if !ok {
			return
		}
		if !sh.users.Editable(models.User{ID: id}) {
			fmt.Fprintln(sh.out, "You cannot modify your own account here")
			return
		}
		if !sh.confirm(fmt.Sprintf("Delete user #%d", id)) {
			return
		}
		if err := sh.users.Delete(ctx, id); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintln(sh.out, "User deleted")
		sh.listUsers(ctx, "")
	default:
		fmt.Fprintln(sh.out, "Usage: user add | edit <id> | delete <id>")
	}
}
