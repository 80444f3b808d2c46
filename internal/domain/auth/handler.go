package auth

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/errorhandler"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/firebase"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Register(r.Context(), req, clientIP(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// RegisterVendor handles POST /auth/register/vendor
func (h *Handler) RegisterVendor(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.RegisterVendor(r.Context(), req, clientIP(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Login(r.Context(), req, clientIP(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// FirebaseLogin handles POST /auth/firebase
func (h *Handler) FirebaseLogin(w http.ResponseWriter, r *http.Request) {
	var req FirebaseLoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.FirebaseLogin(r.Context(), req.IDToken, clientIP(r))
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.OK(w, pair)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to logout", err)
		return
	}

	response.NoContent(w)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// UpdateProfile handles PUT /auth/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.OK(w, resp)
}

// ChangePassword handles PUT /auth/me/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChangePasswordRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		errorhandler.LogValidationError(r.Context(), fieldErrors)
		response.ValidationError(w, fieldErrors)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		response.Conflict(w, "Email is already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid email or password")
	case errors.Is(err, ErrUserBanned):
		response.Forbidden(w, "Your account has been banned")
	case errors.Is(err, ErrInvalidRefreshToken):
		response.Unauthorized(w, "Invalid or expired refresh token")
	case errors.Is(err, ErrWrongPassword):
		response.BadRequest(w, "Current password is incorrect")
	case errors.Is(err, ErrPasswordLogin):
		response.BadRequest(w, "This account uses social login")
	case errors.Is(err, firebase.ErrInvalidIDToken), errors.Is(err, firebase.ErrWrongAudience):
		response.Unauthorized(w, "Invalid Firebase token")
	case errors.Is(err, user.ErrNotFound):
		response.NotFound(w, "User not found")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
