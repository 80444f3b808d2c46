package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking routes. Creation is guest-only so vendors and
// staff are rejected before any side effect.
func Routes(handler *Handler, authMiddleware, guestOnly, vendorOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.With(guestOnly).Post("/", handler.Create)
	r.Get("/guest", handler.GuestBookings)
	r.With(vendorOnly).Get("/vendor", handler.VendorBookings)

	r.Patch("/{id}/cancel", handler.Cancel)
	r.With(vendorOnly).Patch("/{id}/confirm", handler.Confirm)
	r.With(vendorOnly).Patch("/{id}/reject", handler.Reject)
	r.With(vendorOnly).Patch("/{id}/complete", handler.Complete)

	r.Get("/{id}/ticket", handler.Ticket)

	return r
}
