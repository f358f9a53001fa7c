package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NYD05/StyleHub/internal/middleware"
	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/models"
)

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Info("[AuthHandler] Ошибка декодирования запроса регистрации", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, "[AuthHandler:Register]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully",
		UserID:  userID,
	})
}

// Login обрабатывает запрос на вход пользователя.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Info("[AuthHandler] Ошибка декодирования запроса входа", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, "[AuthHandler:Login]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message:      "Login successful",
		UserID:       session.UserID,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	})
}
