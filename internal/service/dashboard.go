package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/blogmanager/internal/access"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/session"
)

// Stats are the dashboard counters. Users is nil unless the viewer may list
// accounts.
type Stats struct {
	Articles   int
	Categories int
	Users      *int
}

// DashboardService backs the landing screen.
type DashboardService struct {
	articles   ArticleAPI
	categories CategoryAPI
	users      UserAPI
	sessions   session.Provider
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(articles ArticleAPI, categories CategoryAPI, users UserAPI, sessions session.Provider) *DashboardService {
	return &DashboardService{articles: articles, categories: categories, users: users, sessions: sessions}
}

// Stats counts articles, categories and, for admins, users. The calls run
// together and the first failure fails the whole result.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	sess, err := authorize(s.sessions, anyone)
	if err != nil {
		return Stats{}, err
	}

	var (
		g     errgroup.Group
		stats Stats
	)
	g.Go(func() error {
		page, err := s.articles.ListArticles(ctx, sess, models.ArticleFilter{Page: 1, Limit: 1})
		stats.Articles = page.Total
		return err
	})
	g.Go(func() error {
		cats, err := s.categories.ListCategories(ctx, sess)
		stats.Categories = len(cats)
		return err
	})
	if access.CanView(sess.Identity(), access.UsersRead) {
		g.Go(func() error {
			users, err := s.users.ListUsers(ctx, sess)
			if err == nil {
				n := len(users)
				stats.Users = &n
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
