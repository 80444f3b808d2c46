package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns public and vendor listing routes
func Routes(handler *Handler, authMiddleware, vendorOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", handler.Browse)
	r.Get("/{id}", handler.Get)

	// Vendor
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(vendorOnly).Post("/", handler.Create)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})

	return r
}
