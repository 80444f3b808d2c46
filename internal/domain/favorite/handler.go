package favorite

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
)

// Handler handles favorite HTTP requests
type Handler struct {
	repo     Repository
	listings *listing.Service
}

// NewHandler creates favorite handler
func NewHandler(repo Repository, listings *listing.Service) *Handler {
	return &Handler{repo: repo, listings: listings}
}

type addRequest struct {
	ListingID string `json:"listing_id"`
}

// Add handles POST /favorites
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	// Only real listings can be saved
	if _, err := h.listings.GetEntity(r.Context(), listingID); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.repo.Add(r.Context(), userID, listingID); err != nil {
		if errors.Is(err, ErrAlreadySaved) {
			response.Conflict(w, "Listing already saved")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.Created(w, map[string]string{"listing_id": listingID.String()})
}

// Remove handles DELETE /favorites/{id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	removed, err := h.repo.Remove(r.Context(), middleware.GetUserID(r.Context()), listingID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}
	if !removed {
		response.NotFound(w, "Listing is not saved")
		return
	}

	response.NoContent(w)
}

// List handles GET /favorites — returns the saved listings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ids, err := h.repo.ListingIDs(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	results := make([]listing.Response, 0, len(ids))
	for _, id := range ids {
		l, err := h.listings.GetEntity(r.Context(), id)
		if err != nil {
			// Deleted listings silently drop out of the saved list
			continue
		}
		results = append(results, listing.ToResponse(l))
	}

	response.OK(w, results)
}

// Check handles GET /favorites/{id}/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	saved, err := h.repo.Exists(r.Context(), middleware.GetUserID(r.Context()), listingID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.OK(w, map[string]bool{"saved": saved})
}
