package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterListingRoutes attaches photo endpoints onto the listings router
func RegisterListingRoutes(r chi.Router, handler *Handler, authMiddleware, vendorOnly func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(vendorOnly)
		r.Post("/{id}/photos", handler.Upload)
		r.Get("/{id}/photos", handler.List)
	})
}

// Routes returns standalone photo routes
func Routes(handler *Handler, authMiddleware, vendorOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(vendorOnly)

	r.Delete("/{id}", handler.Delete)
	r.Patch("/{id}/main", handler.SetMain)

	return r
}
