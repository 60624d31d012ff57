package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerstash/authd/internal/server/config"
	"github.com/peerstash/authd/internal/server/storage/sqlite"
	"github.com/peerstash/authd/pkg/api"
)

// newTestServer поднимает полный стек: маршруты, middleware и sqlite in-memory
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		Addr:          ":0",
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
		RateLimit:     1000,
		RateWindow:    time.Minute,
	}

	srv, err := New(logger, cfg, store, "test")
	require.NoError(t, err)

	return srv.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}, prep func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prep != nil {
		prep(req)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_FullAuthFlow(t *testing.T) {
	handler := newTestServer(t)

	// Регистрация
	rec := doJSON(t, handler, http.MethodPost, "/user/register", api.RegisterRequest{
		Username: "u1",
		Email:    "u1@x.com",
		Password: "pw123456",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var regResp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regResp))
	assert.Equal(t, "Registered u1", regResp.Message)

	// Повторная регистрация с тем же email
	rec = doJSON(t, handler, http.MethodPost, "/user/register", api.RegisterRequest{
		Username: "u2",
		Email:    "u1@x.com",
		Password: "pw123456",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Вход с неверным паролем
	rec = doJSON(t, handler, http.MethodPost, "/user/login", api.LoginRequest{
		Email:    "u1@x.com",
		Password: "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Вход с верными данными
	rec = doJSON(t, handler, http.MethodPost, "/user/login", api.LoginRequest{
		Email:    "u1@x.com",
		Password: "pw123456",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp api.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.AccessToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	refreshCookie := cookies[0]
	assert.Equal(t, "refreshToken", refreshCookie.Name)
	assert.True(t, refreshCookie.HttpOnly)

	// Защищенный endpoint с access token
	rec = doJSON(t, handler, http.MethodGet, "/user/data", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1@x.com")

	// Защищенный endpoint без токена
	rec = doJSON(t, handler, http.MethodGet, "/user/data", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Обновление access token по refresh cookie
	rec = doJSON(t, handler, http.MethodGet, "/user/refresh", nil, func(r *http.Request) {
		r.AddCookie(refreshCookie)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshResp api.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshResp))
	require.NotEmpty(t, refreshResp.AccessToken)

	// Новый access token тоже открывает защищенный endpoint
	rec = doJSON(t, handler, http.MethodGet, "/user/data", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+refreshResp.AccessToken)
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout стирает cookie
	rec = doJSON(t, handler, http.MethodGet, "/user/logout", nil, func(r *http.Request) {
		r.AddCookie(refreshCookie)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)

	// Перехваченный до logout refresh token продолжает работать
	rec = doJSON(t, handler, http.MethodGet, "/user/refresh", nil, func(r *http.Request) {
		r.AddCookie(refreshCookie)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RefreshWithoutCookie(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/user/refresh", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/user/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "garbage"})
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t)

	// Маршруты объявлены с методами, GET на register не матчится
	rec := doJSON(t, handler, http.MethodGet, "/user/register", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Health(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_BadSecretsConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// Совпадающие секреты отклоняются при сборке сервера
	cfg := &config.Config{
		Addr:          ":0",
		AccessSecret:  "same-secret",
		RefreshSecret: "same-secret",
		RateLimit:     100,
		RateWindow:    time.Minute,
	}

	_, err = New(logger, cfg, store, "test")
	assert.Error(t, err)
}
