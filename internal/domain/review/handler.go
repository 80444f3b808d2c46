package review

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

// Handler handles review HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates review handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings/{id}/reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

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

	resp, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), listingID, req)
	if err != nil {
		h.handleReviewError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// List handles GET /listings/{id}/reviews
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	results, total, err := h.service.List(r.Context(), listingID, page, limit)
	if err != nil {
		h.handleReviewError(w, r, err)
		return
	}

	response.WithMeta(w, results, response.NewMeta(total, page, limit))
}

// Summary handles GET /listings/{id}/reviews/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	resp, err := h.service.Summary(r.Context(), listingID)
	if err != nil {
		h.handleReviewError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// Delete handles DELETE /reviews/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	ctx := r.Context()
	if err := h.service.Delete(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx) == "admin", id); err != nil {
		h.handleReviewError(w, r, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) handleReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, listing.ErrNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Review not found")
	case errors.Is(err, ErrDuplicate):
		response.Conflict(w, "You have already reviewed this listing")
	case errors.Is(err, ErrNotAuthor):
		response.Forbidden(w, "You can only delete your own reviews")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
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
