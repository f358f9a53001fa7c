package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/NYD05/StyleHub/internal/middleware"
	"github.com/NYD05/StyleHub/models"
	"github.com/go-chi/chi/v5"
)

const indexFile = "index.html"

// StaticHandler отдает служебные ответы и статический фронтенд.
type StaticHandler struct {
	dir string
}

// NewStaticHandler создает обработчик фронтенда из каталога dir.
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Index отвечает приветствием API.
func (h *StaticHandler) Index(w http.ResponseWriter, _ *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Welcome to StyleHub API"})
}

// Ping отвечает "pong".
func (h *StaticHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

// App отдает index.html фронтенда.
func (h *StaticHandler) App(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, indexFile)
}

// Static отдает файл фронтенда. Для отсутствующих путей без расширения
// или с расширением .html отдается index.html, остальные дают 404.
func (h *StaticHandler) Static(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if name == "" {
		h.serveFile(w, r, indexFile)
		return
	}

	if info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
		h.serveFile(w, r, name)
		return
	}

	if strings.HasSuffix(name, ".html") || !strings.Contains(path.Base(name), ".") {
		h.serveFile(w, r, indexFile)
		return
	}
	http.NotFound(w, r)
}

// serveFile отдает файл через ServeContent: http.ServeFile перенаправляет
// запросы к */index.html, а "/" здесь занят приветствием API.
func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(filepath.Join(h.dir, filepath.FromSlash(name)))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
