package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns favorite routes (all require auth)
func Routes(handler *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", handler.List)
	r.Post("/", handler.Add)
	r.Delete("/{id}", handler.Remove)
	r.Get("/{id}/check", handler.Check)

	return r
}
