package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/peerstash/authd/internal/client/storage"
)

func (c *Cli) runLogout(ctx context.Context) error {
	// Сервер стирает cookie, но сам refresh token не инвалидируется
	if _, err := c.apiClient.Logout(ctx); err != nil {
		// Сервер недоступен: локальную сессию все равно удаляем
		c.io.Printf("Warning: logout request failed: %v\n", err)
	}

	if err := c.sessions.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("No saved session.")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("Logged out, local session removed.")

	return nil
}
