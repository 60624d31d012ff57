// Package token реализует выпуск и проверку пары токенов:
// короткоживущий access token и долгоживущий refresh token.
// Оба токена stateless (JWT HS256) и подписываются разными секретами,
// поэтому обладание одним не дает возможности подделать другой.
package token

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTTL срок жизни access token
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL срок жизни refresh token
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken возвращается при любой неуспешной проверке токена.
// Поврежденный, подделанный и истекший токены для вызывающего не различаются
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет JWT claims: токен привязан только к email пользователя
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config содержит секреты подписи и сроки жизни токенов.
// Секреты передаются явно при создании Issuer, а не через глобальное состояние
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Issuer выпускает и проверяет access и refresh токены
type Issuer struct {
	cfg Config
}

// NewIssuer создает Issuer, проверяя конфигурацию секретов.
// Отсутствующий или совпадающий секрет — фатальная ошибка конфигурации
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, fmt.Errorf("access secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("refresh secret is required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, fmt.Errorf("access and refresh secrets must be distinct")
	}

	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	return &Issuer{cfg: cfg}, nil
}

// AccessTTL возвращает настроенный срок жизни access token
func (i *Issuer) AccessTTL() time.Duration {
	return i.cfg.AccessTTL
}

// RefreshTTL возвращает настроенный срок жизни refresh token
func (i *Issuer) RefreshTTL() time.Duration {
	return i.cfg.RefreshTTL
}

// IssueAccessToken выпускает access token для email с коротким сроком жизни
func (i *Issuer) IssueAccessToken(email string) (string, error) {
	return i.issue(email, i.cfg.AccessSecret, i.cfg.AccessTTL)
}

// IssueRefreshToken выпускает refresh token для email с длинным сроком жизни
func (i *Issuer) IssueRefreshToken(email string) (string, error) {
	return i.issue(email, i.cfg.RefreshSecret, i.cfg.RefreshTTL)
}

// VerifyAccessToken проверяет access token и возвращает его claims
func (i *Issuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	return i.verify(tokenString, i.cfg.AccessSecret)
}

// VerifyRefreshToken проверяет refresh token и возвращает привязанный email
func (i *Issuer) VerifyRefreshToken(tokenString string) (string, error) {
	claims, err := i.verify(tokenString, i.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// issue создает подписанный JWT с claims {email} и заданным сроком жизни
func (i *Issuer) issue(email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "peerstash",
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// verify валидирует подпись и срок действия, возвращает claims
func (i *Issuer) verify(tokenString string, secret []byte) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Принимаем только HMAC, чтобы исключить подмену алгоритма
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
