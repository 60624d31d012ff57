// Package server собирает HTTP сервер аутентификации: маршруты,
// middleware и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peerstash/authd/internal/server/config"
	"github.com/peerstash/authd/internal/server/handlers"
	"github.com/peerstash/authd/internal/server/middleware"
	"github.com/peerstash/authd/internal/server/storage"
	"github.com/peerstash/authd/internal/server/token"
)

// Server представляет HTTP сервер аутентификации
type Server struct {
	logger *slog.Logger
	cfg    *config.Config
	srv    *http.Server
}

// New создает сервер с собранным деревом маршрутов и middleware
func New(logger *slog.Logger, cfg *config.Config, users storage.UserStorage, version string) (*Server, error) {
	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	authHandler := handlers.NewAuthHandler(logger, users, issuer, cfg.SecureCookie)
	dataHandler := handlers.NewDataHandler(logger)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, issuer)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/register", authHandler.Register)
	mux.HandleFunc("POST /user/login", authHandler.Login)
	mux.HandleFunc("GET /user/refresh", authHandler.Refresh)
	mux.HandleFunc("GET /user/logout", authHandler.Logout)
	mux.Handle("GET /user/data", requireAuth(http.HandlerFunc(dataHandler.UserData)))
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Внешние middleware оборачивают все маршруты
	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger: logger,
		cfg:    cfg,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler возвращает корневой http.Handler (используется в тестах)
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run запускает сервер и блокируется до SIGINT/SIGTERM или ошибки listen.
// После сигнала выполняется graceful shutdown с таймаутом
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting auth server", "addr", s.cfg.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
