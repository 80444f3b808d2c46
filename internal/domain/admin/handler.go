package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
)

// Handler handles admin HTTP requests
type Handler struct {
	service  *Service
	users    user.Repository
	listings *listing.Service
}

// NewHandler creates admin handler
func NewHandler(service *Service, users user.Repository, listings *listing.Service) *Handler {
	return &Handler{service: service, users: users, listings: listings}
}

// Stats handles GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}
	response.OK(w, stats)
}

// Listings handles GET /admin/listings?status=
func (h *Handler) Listings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	status := listing.Status(q.Get("status"))
	if status == "" {
		status = listing.StatusPending
	}

	// Moderation queue reads straight from the repository, skipping the
	// active-collection cache
	listings, total, err := h.listings.ListByStatus(r.Context(), status, page, limit)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.WithMeta(w, listings, response.NewMeta(total, page, limit))
}

// ApproveListing handles PATCH /admin/listings/{id}/approve
func (h *Handler) ApproveListing(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, true)
}

// RejectListing handles PATCH /admin/listings/{id}/reject
func (h *Handler) RejectListing(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, false)
}

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var resp *listing.DetailResponse
	if approve {
		resp, err = h.service.ApproveListing(r.Context(), id)
	} else {
		resp, err = h.service.RejectListing(r.Context(), id)
	}
	if err != nil {
		switch {
		case errors.Is(err, listing.ErrNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, listing.ErrNotModerable):
			response.Conflict(w, "Listing is not pending moderation")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		}
		return
	}

	response.OK(w, resp)
}

type userRow struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	IsBanned      bool      `json:"is_banned"`
	CreatedAt     time.Time `json:"created_at"`
}

// Users handles GET /admin/users?role=
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	users, total, err := h.users.List(r.Context(), q.Get("role"), limit, (page-1)*limit)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:            u.ID.String(),
			Email:         u.Email,
			FullName:      u.FullName,
			Role:          string(u.Role),
			EmailVerified: u.EmailVerified,
			IsBanned:      u.IsBanned,
			CreatedAt:     u.CreatedAt,
		})
	}

	response.WithMeta(w, rows, response.NewMeta(total, page, limit))
}

// BanUser handles PATCH /admin/users/{id}/ban
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

// UnbanUser handles PATCH /admin/users/{id}/unban
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *Handler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.SetBanned(r.Context(), id, banned); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.NoContent(w)
}

func parseIntParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
