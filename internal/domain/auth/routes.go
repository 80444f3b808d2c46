package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns auth routes
func Routes(handler *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Post("/register", handler.Register)
	r.Post("/register/vendor", handler.RegisterVendor)
	r.Post("/login", handler.Login)
	r.Post("/firebase", handler.FirebaseLogin)
	r.Post("/refresh", handler.Refresh)
	r.Post("/logout", handler.Logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", handler.Me)
		r.Put("/me", handler.UpdateProfile)
		r.Put("/me/password", handler.ChangePassword)
	})

	return r
}
