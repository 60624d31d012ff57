package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch возвращается, когда пароль не соответствует хешу
var ErrPasswordMismatch = fmt.Errorf("password does not match")

// HashPassword хеширует пароль с использованием bcrypt
// Соль генерируется внутри bcrypt, результат самодостаточен для проверки
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному bcrypt хешу
// Сравнение внутри bcrypt выполняется за константное время
func VerifyPassword(password, passwordHash string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash cannot be empty")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}

	return nil
}
