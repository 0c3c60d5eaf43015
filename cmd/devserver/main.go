// Command devserver runs a local stand-in for the blog REST API so that
// blogctl can be exercised end to end. It keeps data in memory unless a
// PostgreSQL DSN is given.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/blogmanager/internal/auth"
	"github.com/atinyakov/blogmanager/internal/certgen"
	"github.com/atinyakov/blogmanager/internal/config"
	"github.com/atinyakov/blogmanager/internal/db"
	"github.com/atinyakov/blogmanager/internal/logger"
	"github.com/atinyakov/blogmanager/internal/models"
	"github.com/atinyakov/blogmanager/internal/repository"
	"github.com/atinyakov/blogmanager/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	store, closeStore, err := openStore(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init store", zap.Error(err))
	}
	defer closeStore()

	if err := seedAdmin(context.Background(), store, options.AdminPassword); err != nil {
		zapLogger.Fatal("cannot seed admin", zap.Error(err))
	}

	tokens, err := auth.NewTokens(options.JWTSecret, options.TokenTTL)
	if err != nil {
		zapLogger.Fatal("cannot init tokens", zap.Error(err))
	}

	router := http.NewRouter(http.Handlers{
		Auth:       &http.AuthHandler{Users: store, Tokens: tokens},
		Articles:   &http.ArticleHandler{Articles: store, Users: store},
		Categories: &http.CategoryHandler{Categories: store, Users: store},
		Users:      &http.UserHandler{Users: store},
	}, tokens, zapLogger)

	server := &nethttp.Server{Addr: options.Addr, Handler: router}

	if options.TLSDir == "" {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		err = server.ListenAndServe()
	} else {
		files, ferr := certgen.EnsureDir(options.TLSDir, []string{"localhost", "127.0.0.1"})
		if ferr != nil {
			zapLogger.Fatal("failed to prepare TLS certificates", zap.Error(ferr))
		}
		zapLogger.Info("starting HTTPS server",
			zap.String("addr", options.Addr),
			zap.String("ca", files.CACert))
		err = server.ListenAndServeTLS(files.ServerCert, files.ServerKey)
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// openStore picks PostgreSQL when dsn is set and the in-memory store otherwise.
func openStore(dsn string) (repository.Store, func(), error) {
	if dsn == "" {
		return repository.NewMemoryStore(), func() {}, nil
	}
	conn, err := db.InitPostgres(dsn)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresStore(conn), func() { _ = conn.Close() }, nil
}

// seedAdmin creates the "admin" account when password is set and no such
// account exists yet.
func seedAdmin(ctx context.Context, store repository.UserStore, password string) error {
	if password == "" {
		return nil
	}
	_, _, err := store.UserByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, "admin", hash, models.RoleAdmin)
	return err
}
