package models

import "time"

// User представляет зарегистрированного пользователя (identity)
// Запись неизменяема после регистрации: путей обновления и удаления нет
type User struct {
	ID           string    `json:"id"`            // UUID пользователя
	Username     string    `json:"username"`      // отображаемое имя
	Email        string    `json:"email"`         // уникальный email
	PasswordHash string    `json:"password_hash"` // bcrypt хеш пароля
	CreatedAt    time.Time `json:"created_at"`    // время создания
}
