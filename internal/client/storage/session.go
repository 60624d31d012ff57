package storage

import (
	"context"
	"errors"
)

// ErrSessionNotFound indicates that no saved session exists
var ErrSessionNotFound = errors.New("session not found")

// SessionStorage defines interface for storing the client session locally
type SessionStorage interface {
	// SaveSession stores the current session, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	// Returns ErrSessionNotFound if no session exists
	DeleteSession(ctx context.Context) error
}

// Session представляет сохраненную сессию CLI клиента
// Refresh token хранится локально ровно так же, как браузер хранит
// HTTP-only cookie: файл базы защищен правами доступа 0600
type Session struct {
	Email           string `json:"email"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // unix время истечения access token
}
