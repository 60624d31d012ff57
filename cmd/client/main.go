package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peerstash/authd/internal/client/api"
	"github.com/peerstash/authd/internal/client/cli"
	"github.com/peerstash/authd/internal/client/iocli"
	"github.com/peerstash/authd/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:3001", "Server URL")
	dbPath := flag.String("db", "authd-client.db", "Path to local session database")
	flag.Parse()

	if *showVersion {
		fmt.Printf("peerstash auth client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
			Version, BuildDate, GitCommit)
		return nil
	}

	io := iocli.NewStdio()
	apiClient := api.NewClient(*serverURL)

	args := flag.Args()
	if len(args) == 0 {
		cli.New(apiClient, nil, io).PrintUsage()
		return fmt.Errorf("command is required")
	}

	// Локальное хранилище сессии открываем только когда команда известна
	sessions, err := boltdb.New(context.Background(), *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	defer func() {
		_ = sessions.Close()
	}()

	return cli.New(apiClient, sessions, io).Run(context.Background(), args[0])
}
