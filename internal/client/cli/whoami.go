package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peerstash/authd/internal/client/storage"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("not authenticated, run 'login' first")
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Истекший access token сначала обновляем по refresh cookie
	if session.AccessExpiresAt > 0 && time.Now().Unix() >= session.AccessExpiresAt {
		c.io.Println("Access token expired, refreshing...")

		resp, err := c.apiClient.Refresh(ctx, session.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to refresh access token: %w", err)
		}

		session.AccessToken = resp.AccessToken
		session.AccessExpiresAt = accessTokenExpiry(resp.AccessToken)

		if err := c.sessions.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	resp, err := c.apiClient.UserData(ctx, session.AccessToken)
	if err != nil {
		return err
	}

	c.io.Printf("%s\n", resp.Message)

	return nil
}
