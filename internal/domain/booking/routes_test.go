package booking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/jwt"
)

func TestCreateRequiresGuestRole(t *testing.T) {
	f := newFixture(t)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, time.Hour)

	router := Routes(NewHandler(f.svc),
		middleware.Auth(jwtService),
		middleware.RequireGuest(),
		middleware.RequireVendor(),
	)

	body := `{"listing_id":"` + f.listing.ID.String() + `","event_date":"` + futureDate() + `","guest_count":100}`

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"guest allowed", "guest", http.StatusCreated},
		{"vendor forbidden", "vendor", http.StatusForbidden},
		{"staff forbidden", "staff", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.repo.bookings)

			userID := f.guest.ID
			if tt.role != "guest" {
				userID = uuid.New()
			}
			token, err := jwtService.GenerateAccessToken(userID, tt.role, false)
			if err != nil {
				t.Fatalf("token generation failed: %v", err)
			}

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			// Forbidden requests must leave no booking behind
			if tt.wantStatus == http.StatusForbidden && len(f.repo.bookings) != before {
				t.Error("forbidden request inserted a booking")
			}
		})
	}
}

func TestCreateUnauthenticated(t *testing.T) {
	f := newFixture(t)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, time.Hour)

	router := Routes(NewHandler(f.svc),
		middleware.Auth(jwtService),
		middleware.RequireGuest(),
		middleware.RequireVendor(),
	)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if len(f.repo.bookings) != 0 {
		t.Error("unauthenticated request inserted a booking")
	}
}
