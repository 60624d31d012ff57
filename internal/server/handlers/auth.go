package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/peerstash/authd/internal/crypto"
	"github.com/peerstash/authd/internal/models"
	"github.com/peerstash/authd/internal/server/storage"
	"github.com/peerstash/authd/internal/server/token"
	"github.com/peerstash/authd/internal/validation"
	"github.com/peerstash/authd/pkg/api"
)

const (
	// RefreshCookieName имя cookie с refresh token
	RefreshCookieName = "refreshToken"
	// RefreshCookiePath путь, которым ограничена cookie: браузер отправляет
	// refresh token только на endpoint обновления, не на остальные запросы
	RefreshCookiePath = "/user/refresh"
)

// AuthHandler обрабатывает запросы регистрации и аутентификации
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	issuer       *token.Issuer
	secureCookie bool
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, issuer *token.Issuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		issuer:       issuer,
		secureCookie: secureCookie,
	}
}

// Register обрабатывает POST /user/register
// Регистрация нового пользователя. Токены не выпускаются:
// пользователь должен отдельно выполнить вход
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация входных полей
	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		h.logger.WarnContext(ctx, "invalid email", slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Хешируем пароль
	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Создаем пользователя
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	// Сохраняем в БД: ровно одна из конкурентных регистраций с одним
	// email проходит, остальные получают нарушение уникальности
	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			h.logger.WarnContext(ctx, "duplicate email registration", slog.String("username", req.Username))
			h.sendError(w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	resp := api.RegisterResponse{
		Message: fmt.Sprintf("Registered %s", req.Username),
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Login обрабатывает POST /user/login
// При успехе возвращает access token в теле ответа и устанавливает
// refresh token как HTTP-only cookie с ограниченным путем
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.sendError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	// Получаем пользователя из БД
	// Отсутствующий пользователь и неверный пароль дают одинаковый ответ,
	// чтобы не раскрывать, какие email зарегистрированы
	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found")
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Сверяем пароль с bcrypt хешем
	if err := crypto.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// Выпускаем пару токенов
	accessToken, err := h.issuer.IssueAccessToken(user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.issuer.IssueRefreshToken(user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Refresh token уходит только в HTTP-only cookie, недоступную скриптам
	h.setRefreshCookie(w, refreshToken)

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("user_id", user.ID))

	resp := api.TokenResponse{
		AccessToken: accessToken,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Refresh обрабатывает GET /user/refresh
// Выпускает новый access token по refresh cookie.
// Refresh token не ротируется: та же cookie действует до истечения
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Извлекаем refresh token из cookie
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		h.logger.WarnContext(ctx, "refresh failed: missing cookie")
		h.sendError(w, "refresh token is required", http.StatusUnauthorized)
		return
	}

	// Проверяем подпись и срок действия
	email, err := h.issuer.VerifyRefreshToken(cookie.Value)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh failed: invalid token", slog.Any("error", err))
		h.sendError(w, "invalid refresh token", http.StatusForbidden)
		return
	}

	// Выпускаем новый access token для подтвержденного email
	accessToken, err := h.issuer.IssueAccessToken(email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "access token refreshed")

	resp := api.TokenResponse{
		AccessToken: accessToken,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Logout обрабатывает GET /user/logout
// Стирает refresh cookie по тому же пути, которым она была установлена.
// Сам токен при этом не инвалидируется: перехваченное до logout значение
// остается пригодным для обновления до конца своего срока
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(r.Context(), "user logged out")

	resp := api.MessageResponse{
		Message: "Logged out",
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// setRefreshCookie устанавливает refresh token как HTTP-only cookie
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     RefreshCookiePath,
		MaxAge:   int(h.issuer.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
