package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/peerstash/authd/internal/server/handlers"
	"github.com/peerstash/authd/internal/server/token"
)

// AuthMiddleware пропускает запрос только с действующим access token.
// Email из подтвержденного токена попадает в контекст запроса
func AuthMiddleware(logger *slog.Logger, issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.Warn("missing or malformed Authorization header",
					slog.String("path", r.URL.Path))
				unauthorized(w, "missing or invalid token")
				return
			}

			claims, err := issuer.VerifyAccessToken(tokenString)
			if err != nil {
				logger.Warn("invalid access token", slog.Any("error", err))
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), handlers.EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || rest == "" {
		return "", false
	}

	return rest, true
}

func unauthorized(w http.ResponseWriter, message string) {
	http.Error(w, "Unauthorized: "+message, http.StatusUnauthorized)
}
