package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/peerstash/authd/pkg/api"
)

// contextKey тип для ключей контекста
type contextKey string

// EmailKey ключ для хранения email аутентифицированного пользователя в контексте
const EmailKey contextKey = "email"

// GetEmail извлекает email из контекста запроса
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// DataHandler обрабатывает защищенный endpoint пользовательских данных
type DataHandler struct {
	logger *slog.Logger
}

// NewDataHandler создает новый handler пользовательских данных
func NewDataHandler(logger *slog.Logger) *DataHandler {
	return &DataHandler{
		logger: logger,
	}
}

// UserData обрабатывает GET /user/data
// Placeholder: подтверждает доступ по действующему access token
func (h *DataHandler) UserData(w http.ResponseWriter, r *http.Request) {
	email, ok := GetEmail(r.Context())
	if !ok {
		// Middleware обязан положить email в контекст до вызова handler
		h.logger.ErrorContext(r.Context(), "missing email in request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, api.MessageResponse{
		Message: fmt.Sprintf("Hello %s, user data is not implemented yet", email),
	})
}

// writeJSON отправляет данные как JSON со статусом 200
func writeJSON(w http.ResponseWriter, logger *slog.Logger, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
