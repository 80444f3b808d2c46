package listing

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/validator"
)

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Browse handles GET /listings?category=
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := q.Get("category")
	if category == "" {
		response.BadRequest(w, "category query parameter is required")
		return
	}
	if !IsValidCategory(category) {
		response.BadRequest(w, "Unknown category: "+category)
		return
	}

	criteria, err := criteriaFromQuery(q)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	results, total, err := h.service.Browse(r.Context(), Category(category), criteria, page, limit)
	if err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.WithMeta(w, results, response.NewMeta(total, page, limit))
}

// Get handles GET /listings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// Create handles POST /listings (vendor)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID := middleware.GetUserID(r.Context())

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

	resp, err := h.service.Create(r.Context(), vendorID, req)
	if err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// Update handles PUT /listings/{id} (owner vendor or admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	ctx := r.Context()
	resp, err := h.service.Update(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx) == "admin", id, req)
	if err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// Delete handles DELETE /listings/{id} (owner vendor or admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	ctx := r.Context()
	if err := h.service.Delete(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx) == "admin", id); err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.NoContent(w)
}

// VendorListings handles GET /vendors/me/listings
func (h *Handler) VendorListings(w http.ResponseWriter, r *http.Request) {
	vendorID := middleware.GetUserID(r.Context())

	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1)
	limit := parseIntParam(q.Get("limit"), 20)

	results, total, err := h.service.VendorListings(r.Context(), vendorID, page, limit)
	if err != nil {
		h.handleListingError(w, r, err)
		return
	}

	response.WithMeta(w, results, response.NewMeta(total, page, limit))
}

func (h *Handler) handleListingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this listing")
	case errors.Is(err, ErrInvalidCategory):
		response.BadRequest(w, "Invalid listing category")
	case errors.Is(err, ErrInvalidBucket):
		response.BadRequest(w, "Unknown price bucket")
	case errors.Is(err, ErrNotModerable):
		response.Conflict(w, "Listing is not pending moderation")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
