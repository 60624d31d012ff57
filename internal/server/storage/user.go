// Package storage определяет интерфейс хранилища учетных записей
// и его ошибки. Реализации живут в подпакетах (sqlite).
package storage

import (
	"context"

	"github.com/peerstash/authd/internal/models"
)

// UserStorage persists registered users.
// Email uniqueness is enforced by the store itself, not by callers.
type UserStorage interface {
	// CreateUser inserts a new user.
	// Returns ErrDuplicateEmail if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail looks a user up by email.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID looks a user up by ID.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}
