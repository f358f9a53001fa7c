package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/NYD05/StyleHub/internal/middleware"
	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/models"
)

// InteractionHandler обрабатывает лайки и комментарии.
type InteractionHandler struct {
	interactions services.InteractionService
}

// NewInteractionHandler создает новый экземпляр InteractionHandler.
func NewInteractionHandler(s services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: s}
}

// ToggleLike переключает лайк текущего пользователя.
func (h *InteractionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, "[InteractionHandler:ToggleLike]")
	if !ok {
		return
	}
	sketchID, ok := sketchIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.interactions.ToggleLike(r.Context(), userID, sketchID)
	if err != nil {
		writeServiceError(w, "[InteractionHandler:ToggleLike]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LikeResponse{
		Message: "Sketch " + string(state) + " successfully",
		Action:  state,
		Liked:   state == models.Liked,
	})
}

// AddComment добавляет комментарий текущего пользователя.
func (h *InteractionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, "[InteractionHandler:AddComment]")
	if !ok {
		return
	}
	sketchID, ok := sketchIDParam(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Info("[InteractionHandler:AddComment] Ошибка декодирования запроса", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	commentID, err := h.interactions.AddComment(r.Context(), userID, sketchID, req.Content)
	if err != nil {
		writeServiceError(w, "[InteractionHandler:AddComment]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CommentResponse{
		Message:   "Comment added successfully",
		CommentID: commentID,
	})
}

// ListComments возвращает комментарии наброска.
func (h *InteractionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	sketchID, ok := sketchIDParam(w, r)
	if !ok {
		return
	}

	comments, err := h.interactions.ListComments(r.Context(), sketchID)
	if err != nil {
		writeServiceError(w, "[InteractionHandler:ListComments]", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, comments)
}
