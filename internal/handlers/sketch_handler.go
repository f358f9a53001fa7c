package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/NYD05/StyleHub/internal/middleware"
	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/models"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

const (
	// DefaultMaxUploadBytes - ограничение размера тела запроса загрузки.
	DefaultMaxUploadBytes int64 = 16 << 20
	// multipartMemory - сколько формы держать в памяти, остальное уходит во временные файлы.
	multipartMemory int64 = 8 << 20
	sketchFormField       = "sketch"
)

// SketchHandler обрабатывает HTTP-запросы, связанные с набросками.
type SketchHandler struct {
	sketches       services.SketchService
	maxUploadBytes int64
}

// NewSketchHandler создает новый экземпляр SketchHandler.
// maxUploadBytes <= 0 заменяется на DefaultMaxUploadBytes.
func NewSketchHandler(s services.SketchService, maxUploadBytes int64) *SketchHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &SketchHandler{sketches: s, maxUploadBytes: maxUploadBytes}
}

// Upload обрабатывает multipart-загрузку наброска.
func (h *SketchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, "[SketchHandler:Upload]")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.Info("[SketchHandler:Upload] Превышен размер загрузки",
				"user_id", userID, "limit", humanize.IBytes(uint64(h.maxUploadBytes)))
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %s", humanize.IBytes(uint64(h.maxUploadBytes))))
			return
		}
		slog.Info("[SketchHandler:Upload] Неверная multipart-форма", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("[SketchHandler:Upload] Не удалось удалить временные файлы формы", "error", err)
		}
	}()

	file, header, err := r.FormFile(sketchFormField)
	if err != nil {
		// Часть с пустым filename multipart-парсер относит к обычным полям.
		if _, present := r.MultipartForm.Value[sketchFormField]; present {
			writeServiceError(w, "[SketchHandler:Upload]", services.ErrNoFileSelected)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	slog.Info("[SketchHandler:Upload] Запрос на загрузку наброска",
		"user_id", userID, "filename", header.Filename, "size", humanize.Bytes(uint64(header.Size)))

	sketch, err := h.sketches.Create(r.Context(), services.CreateSketchInput{
		UserID:      userID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Filename:    header.Filename,
		Content:     file,
		Size:        header.Size,
	})
	if err != nil {
		writeServiceError(w, "[SketchHandler:Upload]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{
		Message:  "Sketch uploaded successfully",
		SketchID: sketch.ID,
		Filename: sketch.Filename,
	})
}

// List возвращает ленту набросков.
func (h *SketchHandler) List(w http.ResponseWriter, r *http.Request) {
	sketches, err := h.sketches.List(r.Context())
	if err != nil {
		writeServiceError(w, "[SketchHandler:List]", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sketches)
}

// Delete удаляет набросок текущего пользователя.
func (h *SketchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, "[SketchHandler:Delete]")
	if !ok {
		return
	}
	sketchID, ok := sketchIDParam(w, r)
	if !ok {
		return
	}

	if err := h.sketches.Delete(r.Context(), sketchID, userID); err != nil {
		writeServiceError(w, "[SketchHandler:Delete]", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Sketch deleted successfully"})
}

// ServeUpload отдает сохраненный файл наброска.
func (h *SketchHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	obj, err := h.sketches.OpenFile(r.Context(), filename)
	if err != nil {
		writeServiceError(w, "[SketchHandler:ServeUpload]", err)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	http.ServeContent(w, r, obj.Key, obj.ModTime, obj)
}

// sketchIDParam разбирает {id} из пути. Нечисловой ID означает отсутствующий набросок.
func sketchIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, services.ErrSketchNotFound.Error())
		return 0, false
	}
	return id, true
}
