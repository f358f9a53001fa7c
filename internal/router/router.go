package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NYD05/StyleHub/internal/handlers"
	appmiddleware "github.com/NYD05/StyleHub/internal/middleware"
)

// Handlers - обработчики, из которых собирается роутер.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Sketches     *handlers.SketchHandler
	Interactions *handlers.InteractionHandler
	Static       *handlers.StaticHandler
	// Validator проверяет токены для защищенных маршрутов.
	Validator appmiddleware.TokenValidator
}

// NewRouter настраивает и возвращает роутер chi.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		appmiddleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		appmiddleware.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", h.Static.Index)
	r.Get("/ping", h.Static.Ping)
	r.Get("/app", h.Static.App)
	r.Get("/uploads/{filename}", h.Sketches.ServeUpload)

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Get("/sketches", h.Sketches.List)
		r.Get("/sketches/{id}/comments", h.Interactions.ListComments)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Authenticator(h.Validator))

			r.Post("/upload", h.Sketches.Upload)
			r.Post("/sketches/{id}/like", h.Interactions.ToggleLike)
			r.Post("/sketches/{id}/comments", h.Interactions.AddComment)
			r.Delete("/sketches/{id}", h.Sketches.Delete)
		})
	})

	r.Get("/*", h.Static.Static)
	return r
}
