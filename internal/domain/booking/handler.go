package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings (guest only, enforced by router)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// GuestBookings handles GET /bookings/guest
func (h *Handler) GuestBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	results, total, err := h.service.GuestBookings(
		r.Context(), middleware.GetUserID(r.Context()), Status(q.Get("status")), page, limit)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}

	response.WithMeta(w, results, response.NewMeta(total, page, limit))
}

// VendorBookings handles GET /bookings/vendor
func (h *Handler) VendorBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	results, total, err := h.service.VendorBookings(
		r.Context(), middleware.GetUserID(r.Context()), Status(q.Get("status")), page, limit)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}

	response.WithMeta(w, results, response.NewMeta(total, page, limit))
}

// Cancel handles PATCH /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}
	response.OK(w, resp)
}

// Confirm handles PATCH /bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ConfirmRequest
	// Body is optional on confirm
	if r.ContentLength > 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
		if fieldErrors := validator.Validate(req); fieldErrors != nil {
			response.ValidationError(w, fieldErrors)
			return
		}
	}

	resp, err := h.service.Confirm(r.Context(), middleware.GetUserID(r.Context()), id, req.Notes)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}
	response.OK(w, resp)
}

// Reject handles PATCH /bookings/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Reject(r.Context(), middleware.GetUserID(r.Context()), id, req.Reason)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}
	response.OK(w, resp)
}

// Complete handles PATCH /bookings/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Complete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}
	response.OK(w, resp)
}

// Ticket handles GET /bookings/{id}/ticket
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	pdf, err := h.service.Ticket(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleBookingError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="booking-`+id.String()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *Handler) handleBookingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, listing.ErrNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, "This booking belongs to another user")
	case errors.Is(err, ErrConflict):
		response.Conflict(w, "The listing is already booked for this date")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "The booking cannot change to that status")
	case errors.Is(err, ErrPastEventDate):
		response.BadRequest(w, "Event date must not be in the past")
	case errors.Is(err, ErrNotYetHeld):
		response.Conflict(w, "The event has not taken place yet")
	case errors.Is(err, ErrReasonRequired):
		response.BadRequest(w, "A rejection reason is required")
	case errors.Is(err, ErrNotConfirmed):
		response.Conflict(w, "Tickets are only available for confirmed bookings")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
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
