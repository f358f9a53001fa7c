package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/NYD05/StyleHub/internal/middleware"
	"github.com/NYD05/StyleHub/internal/services"
)

// statusFor сопоставляет вид ошибки сервиса HTTP-статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError пишет ошибку сервиса клиенту. Текст внутренних ошибок
// только логируется, клиент получает общее сообщение.
func writeServiceError(w http.ResponseWriter, component string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(component+" Внутренняя ошибка", "error", err)
		middleware.ErrorResponse(w, status, middleware.InternalErrorMessage)
		return
	}
	slog.Info(component+" Запрос отклонен", "status", status, "reason", err.Error())
	middleware.ErrorResponse(w, status, err.Error())
}

// requireUserID достает ID пользователя, положенный Authenticator.
// Отсутствие ID означает ошибку маршрутизации, а не клиента.
func requireUserID(w http.ResponseWriter, r *http.Request, component string) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		slog.Error(component + " Не удалось получить userID из контекста")
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.InternalErrorMessage)
	}
	return userID, ok
}
