package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns notification routes (all require auth)
func Routes(handler *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", handler.List)
	r.Get("/unread-count", handler.UnreadCount)
	r.Post("/read-all", handler.MarkAllRead)
	r.Post("/{id}/read", handler.MarkRead)

	return r
}
