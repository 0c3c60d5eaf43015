package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/blogmanager/internal/apitest"
	"github.com/atinyakov/blogmanager/internal/client/api"
)

func runScript(t *testing.T, srv *apitest.Server, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := api.New(srv.BaseURL(), srv.Client(), nil)
	newShell(c, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out).run()
	return out.String()
}

func TestShell_AnonymousIsSentToLogin(t *testing.T) {
	srv := apitest.New(t)
	out := runScript(t, srv, "articles", "users", "exit")
	assert.Equal(t, 2, strings.Count(out, "Please log in to continue"))
	assert.Contains(t, out, "Bye")
}

func TestShell_VisitorScreens(t *testing.T) {
	srv := apitest.New(t)
	out := runScript(t, srv,
		"login", "visitor", apitest.Password,
		"help",
		"articles",
		"new",
		"categories",
		"users",
	)
	assert.Contains(t, out, "Welcome, visitor (VISITEUR)")
	assert.Contains(t, out, "Menu: dashboard | articles\n")
	assert.Contains(t, out, "No articles")
	assert.Equal(t, 3, strings.Count(out, "Access denied"))
}

func TestShell_EditorWritesArticle(t *testing.T) {
	srv := apitest.New(t)
	out := runScript(t, srv,
		"login", "editor", apitest.Password,
		"new", "First post", "Hello", "World", ".", "4",
		"article 5",
		"edit 5", "Renamed", "n", "",
		"dashboard",
		"logout",
		"articles",
	)
	assert.Contains(t, out, "Menu: dashboard | articles | categories\n")
	assert.Contains(t, out, "Article #5 created")
	assert.Contains(t, out, "First post  [General] by editor")
	assert.Contains(t, out, "Article updated")
	assert.Contains(t, out, "Renamed  [General] by editor")
	assert.Contains(t, out, "Articles:   1\nCategories: 1\n")
	assert.NotContains(t, out, "Users:")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Please log in to continue")
}

func TestShell_AdminSelfProtection(t *testing.T) {
	srv := apitest.New(t)
	out := runScript(t, srv,
		"login", "admin", apitest.Password,
		"users ADM",
		"user delete 1",
		"user edit 1",
		"dashboard",
	)
	assert.Contains(t, out, "1) admin  ADMIN  (you)")
	assert.NotContains(t, out, "editor  EDITEUR")
	assert.Equal(t, 2, strings.Count(out, "You cannot modify your own account here"))
	assert.Contains(t, out, "Users:      3")
}

func TestShell_CreateFailureOffersRetry(t *testing.T) {
	srv := apitest.New(t)
	out := runScript(t, srv,
		"login", "editor", apitest.Password,
		"new", "Orphan", "text", ".", "99",
		"n",
	)
	assert.Contains(t, out, "Error: Failed to create article: pick a category from the list")
	assert.Contains(t, out, "Retry [y/N]")
	assert.NotContains(t, out, "created")
}
