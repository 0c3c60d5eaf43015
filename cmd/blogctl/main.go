// Command blogctl is an interactive shell for managing a blog through its
// REST API: articles, categories and, for administrators, user accounts.
package main

import (
	"cmp"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/blogmanager/internal/client/api"
	"github.com/atinyakov/blogmanager/internal/config"
	"github.com/atinyakov/blogmanager/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-version" {
		fmt.Printf("blogctl\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	opts, err := config.ParseClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(opts.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}

	hc, err := api.NewHTTPClient(opts.CAFile, opts.Timeout)
	if err != nil {
		log.Log.Fatal("cannot build http client", zap.Error(err))
	}
	client := api.New(opts.BaseURL, hc, log.Log)

	newShell(client, os.Stdin, os.Stdout).run()
}
