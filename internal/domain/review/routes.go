package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterListingRoutes attaches the listing-scoped review endpoints to the
// listings router
func RegisterListingRoutes(r chi.Router, handler *Handler, authMiddleware, guestOnly func(http.Handler) http.Handler) {
	r.Get("/{id}/reviews", handler.List)
	r.Get("/{id}/reviews/summary", handler.Summary)
	r.With(authMiddleware, guestOnly).Post("/{id}/reviews", handler.Create)
}

// Routes returns the top-level review routes
func Routes(handler *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Delete("/{id}", handler.Delete)
	})

	return r
}
