// Package config собирает настройки сервера из дефолтов, переменных
// окружения и флагов командной строки (в порядке возрастания приоритета).
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит настройки auth сервера
//
// Секреты подписи access и refresh токенов обязаны быть заданы и различаться:
// обладание одним токеном не должно давать возможность подделать другой
type Config struct {
	Addr          string        // адрес и порт HTTP сервера
	DatabasePath  string        // путь к файлу SQLite
	AccessSecret  string        // секрет подписи access токенов
	RefreshSecret string        // секрет подписи refresh токенов
	AccessTTL     time.Duration // срок жизни access token
	RefreshTTL    time.Duration // срок жизни refresh token
	LogLevel      string        // уровень логирования: debug, info, warn, error
	RateLimit     int           // запросов на окно rate limiter
	RateWindow    time.Duration // окно rate limiter
	SecureCookie  bool          // флаг Secure у refresh cookie (для TLS деплоя)
}

// loadDefaults заполняет Config значениями для локальной разработки
func (c *Config) loadDefaults() {
	c.Addr = ":3001"
	c.DatabasePath = "authd.db"
	c.AccessTTL = 15 * time.Minute
	c.RefreshTTL = 30 * 24 * time.Hour
	c.LogLevel = "info"
	c.RateLimit = 100
	c.RateWindow = time.Minute
	c.SecureCookie = false
}

// loadEnv накладывает значения из переменных окружения
func (c *Config) loadEnv() {
	if v := os.Getenv("AUTHD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("AUTHD_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("AUTHD_ACCESS_SECRET"); v != "" {
		c.AccessSecret = v
	}
	if v := os.Getenv("AUTHD_REFRESH_SECRET"); v != "" {
		c.RefreshSecret = v
	}
	if v := os.Getenv("AUTHD_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.AccessTTL = d
		}
	}
	if v := os.Getenv("AUTHD_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshTTL = d
		}
	}
	if v := os.Getenv("AUTHD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("AUTHD_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit = n
		}
	}
	if v := os.Getenv("AUTHD_SECURE_COOKIE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SecureCookie = b
		}
	}
}

// parseFlags накладывает значения из флагов командной строки
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("authd", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "path to SQLite database file")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "access token signing secret")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "refresh token signing secret")
	fs.DurationVar(&c.AccessTTL, "access-ttl", c.AccessTTL, "access token lifetime")
	fs.DurationVar(&c.RefreshTTL, "refresh-ttl", c.RefreshTTL, "refresh token lifetime")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "max requests per rate window")
	fs.BoolVar(&c.SecureCookie, "secure-cookie", c.SecureCookie, "set Secure flag on refresh cookie")

	return fs.Parse(args)
}

// SlogLevel преобразует LogLevel в slog.Level.
// Неизвестное значение трактуется как info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate проверяет обязательные настройки
func (c *Config) Validate() error {
	if c.AccessSecret == "" {
		return fmt.Errorf("AUTHD_ACCESS_SECRET is required")
	}
	if c.RefreshSecret == "" {
		return fmt.Errorf("AUTHD_REFRESH_SECRET is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("access and refresh secrets must be distinct")
	}
	if c.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	return nil
}

// Load собирает конфигурацию: дефолты, затем окружение, затем флаги
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.loadDefaults()
	cfg.loadEnv()

	if err := cfg.parseFlags(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
