package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NYD05/StyleHub/internal/services"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения ID пользователя в контексте.
const UserIDKey contextKey = "userID"

const bearerPrefix = "bearer "

// TokenValidator проверяет токен сессии и возвращает ID пользователя.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (int64, error)
}

// Authenticator проверяет токен сессии из заголовка Authorization.
// Принимается как сам токен, так и вид "Bearer <token>".
// При успехе ID пользователя кладется в контекст запроса.
func Authenticator(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromHeader(r.Header.Get("Authorization"))

			userID, err := validator.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrUnauthorized) {
					slog.Info("[AuthMiddleware] Запрос отклонен", "path", r.URL.Path, "reason", err.Error())
					ErrorResponse(w, http.StatusUnauthorized, err.Error())
					return
				}
				slog.Error("[AuthMiddleware] Ошибка проверки сессии", "path", r.URL.Path, "error", err)
				ErrorResponse(w, http.StatusInternalServerError, InternalErrorMessage)
				return
			}

			slog.Debug("[AuthMiddleware] Пользователь аутентифицирован", "user_id", userID)
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// TokenFromHeader извлекает токен из значения заголовка Authorization.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}

// WithUserID возвращает контекст с ID аутентифицированного пользователя.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext извлекает UserID из контекста запроса.
// Возвращает ID пользователя и true, если ID найден, иначе 0 и false.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
