package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peerstash/authd/internal/client/storage"
	"github.com/peerstash/authd/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	resp, refreshToken, err := c.apiClient.Login(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	session := &storage.Session{
		Email:           email,
		AccessToken:     resp.AccessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: accessTokenExpiry(resp.AccessToken),
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("Login successful!")
	c.io.Printf("Email: %s\n", email)
	if session.AccessExpiresAt > 0 {
		c.io.Printf("Access token expires: %s\n", time.Unix(session.AccessExpiresAt, 0).Format(time.RFC3339))
	}

	return nil
}

// accessTokenExpiry извлекает exp из access token без проверки подписи.
// Секрет подписи известен только серверу, клиенту нужен лишь срок жизни
func accessTokenExpiry(tokenString string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}

	return exp.Unix()
}
