package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin routes. Staff can moderate; banning is admin only.
func Routes(handler *Handler, authMiddleware, staffOnly, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(staffOnly)

	r.Get("/stats", handler.Stats)
	r.Get("/listings", handler.Listings)
	r.Patch("/listings/{id}/approve", handler.ApproveListing)
	r.Patch("/listings/{id}/reject", handler.RejectListing)
	r.Get("/users", handler.Users)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Patch("/users/{id}/ban", handler.BanUser)
		r.Patch("/users/{id}/unban", handler.UnbanUser)
	})

	return r
}
