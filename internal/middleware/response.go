package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NYD05/StyleHub/models"
)

// InternalErrorMessage отдается клиенту вместо подробностей внутренних ошибок.
const InternalErrorMessage = "Internal server error"

// JSONResponse пишет ответ в формате JSON.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("[Response] Ошибка кодирования JSON", "error", err)
	}
}

// ErrorResponse пишет ошибку в виде {"error": "..."}.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{Error: message})
}
