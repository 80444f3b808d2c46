package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
)

// Multipart form memory limit; larger files spill to disk
const maxMultipartMemory = 10 << 20

// Handler handles photo HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates photo handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /listings/{id}/photos (multipart, field "photo")
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	actorID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	resp, err := h.service.Upload(r.Context(), actorID, isAdmin, listingID, file)
	if err != nil {
		h.handlePhotoError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// List handles GET /listings/{id}/photos
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	photos, err := h.service.List(r.Context(), actorID, isAdmin, listingID)
	if err != nil {
		h.handlePhotoError(w, r, err)
		return
	}

	response.OK(w, photos)
}

// Delete handles DELETE /photos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	if err := h.service.Delete(r.Context(), actorID, isAdmin, photoID); err != nil {
		h.handlePhotoError(w, r, err)
		return
	}

	response.NoContent(w)
}

// SetMain handles PATCH /photos/{id}/main
func (h *Handler) SetMain(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	resp, err := h.service.SetMain(r.Context(), actorID, isAdmin, photoID)
	if err != nil {
		h.handlePhotoError(w, r, err)
		return
	}

	response.OK(w, resp)
}

func (h *Handler) handlePhotoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Photo not found")
	case errors.Is(err, listing.ErrNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You can only manage photos on your own listings")
	case errors.Is(err, ErrNotProcessed):
		response.Conflict(w, "Photo is still being processed")
	case errors.Is(err, storage.ErrFileTooLarge):
		errorhandler.HandleError(r.Context(), w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds maximum size", err)
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "File type not allowed")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
