package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerstash/authd/internal/server/handlers"
	"github.com/peerstash/authd/internal/server/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	})
	require.NoError(t, err)

	return issuer
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := testIssuer(t)
	accessToken, err := issuer.IssueAccessToken("u1@x.com")
	require.NoError(t, err)

	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = handlers.GetEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := AuthMiddleware(testLogger(), issuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1@x.com", gotEmail)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	issuer := testIssuer(t)

	// Refresh token не проходит проверку access secret
	refreshToken, err := issuer.IssueRefreshToken("u1@x.com")
	require.NoError(t, err)

	// Токен от другого issuer (другой секрет)
	other, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte("other-access"),
		RefreshSecret: []byte("other-refresh"),
	})
	require.NoError(t, err)
	foreignToken, err := other.IssueAccessToken("u1@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "missing header",
			header: "",
		},
		{
			name:   "not bearer",
			header: "Basic dXNlcjpwYXNz",
		},
		{
			name:   "malformed token",
			header: "Bearer not-a-jwt",
		},
		{
			name:   "refresh token instead of access",
			header: "Bearer " + refreshToken,
		},
		{
			name:   "token signed with wrong secret",
			header: "Bearer " + foreignToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			handler := AuthMiddleware(testLogger(), issuer)(next)

			req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "next handler must not be called")
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	shortLived, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     1 * time.Millisecond,
	})
	require.NoError(t, err)

	accessToken, err := shortLived.IssueAccessToken("u1@x.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(testLogger(), shortLived)(next)

	req := httptest.NewRequest(http.MethodGet, "/user/data", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
