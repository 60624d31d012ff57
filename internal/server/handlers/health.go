package handlers

import (
	"log/slog"
	"net/http"
)

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HealthHandler отвечает на запросы мониторинга
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler создает handler для health check
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
	}
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
