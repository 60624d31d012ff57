// Package cli реализует команды консольного клиента auth сервиса.
package cli

import (
	"context"
	"fmt"

	"github.com/peerstash/authd/internal/client/api"
	"github.com/peerstash/authd/internal/client/iocli"
	"github.com/peerstash/authd/internal/client/storage"
)

type Cli struct {
	apiClient *api.Client
	sessions  storage.SessionStorage
	io        iocli.IO
}

func New(apiClient *api.Client, sessions storage.SessionStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
	}
}

// Run выполняет команду по имени
func (c *Cli) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "status":
		return c.runStatus(ctx)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage печатает справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println("Usage: authd-cli [flags] <command>")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register  Register a new account")
	c.io.Println("  login     Log in and save the session")
	c.io.Println("  refresh   Obtain a new access token")
	c.io.Println("  logout    Log out and remove the saved session")
	c.io.Println("  whoami    Call the protected user data endpoint")
	c.io.Println("  status    Show the saved session status")
	c.io.Println()
	c.io.Println("Flags:")
	c.io.Println("  -server string  Server URL (default http://localhost:3001)")
	c.io.Println("  -db string      Path to local session database")
	c.io.Println("  -version        Show version information")
}
