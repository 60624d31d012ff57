package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peerstash/authd/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", session.Email)

	if session.AccessExpiresAt > 0 {
		expiresAt := time.Unix(session.AccessExpiresAt, 0)
		remaining := time.Until(expiresAt)

		c.io.Printf("Access token expires: %s\n", expiresAt.Format(time.RFC3339))
		if remaining > 0 {
			c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
		} else {
			c.io.Println("Access token has expired. Run 'refresh' or 'login'.")
		}
	}

	return nil
}
