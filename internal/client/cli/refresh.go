package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peerstash/authd/internal/client/storage"
)

func (c *Cli) runRefresh(ctx context.Context) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("not authenticated, run 'login' first")
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	resp, err := c.apiClient.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return err
	}

	// Refresh token не ротируется сервером: сохраняем прежний
	session.AccessToken = resp.AccessToken
	session.AccessExpiresAt = accessTokenExpiry(resp.AccessToken)

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println("Access token refreshed.")
	if session.AccessExpiresAt > 0 {
		c.io.Printf("Expires: %s\n", time.Unix(session.AccessExpiresAt, 0).Format(time.RFC3339))
	}

	return nil
}
