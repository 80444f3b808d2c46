package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/booking"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/notification"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
)

// Stats represents the dashboard counts
type Stats struct {
	UsersByRole      map[string]int `json:"users_by_role"`
	ListingsByStatus map[string]int `json:"listings_by_status"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	ReviewCount      int            `json:"review_count"`
}

// Service handles moderation and dashboard logic
type Service struct {
	db       *sqlx.DB
	users    user.Repository
	listings *listing.Service
	bookings booking.Repository
	notifier booking.Notifier
}

// NewService creates admin service
func NewService(db *sqlx.DB, users user.Repository, listings *listing.Service, bookings booking.Repository, notifier booking.Notifier) *Service {
	return &Service{db: db, users: users, listings: listings, bookings: bookings, notifier: notifier}
}

// DashboardStats aggregates platform counts
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		UsersByRole:      make(map[string]int),
		ListingsByStatus: make(map[string]int),
		BookingsByStatus: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.UsersByRole[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	listingCounts, err := s.listingCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.ListingsByStatus = listingCounts

	bookingCounts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	stats.BookingsByStatus = bookingCounts

	if err := s.db.GetContext(ctx, &stats.ReviewCount, `SELECT COUNT(*) FROM reviews`); err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	return stats, nil
}

func (s *Service) listingCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ApproveListing activates a pending listing and notifies the vendor
func (s *Service) ApproveListing(ctx context.Context, id uuid.UUID) (*listing.DetailResponse, error) {
	resp, err := s.listings.Moderate(ctx, id, true)
	if err != nil {
		return nil, err
	}

	vendorID, _ := uuid.Parse(resp.VendorID)
	s.notifyVendor(ctx, vendorID, notification.TypeListingApproved,
		"Listing approved",
		fmt.Sprintf("Your listing %q is now live", resp.Name), id)

	return resp, nil
}

// RejectListing rejects a pending listing and notifies the vendor
func (s *Service) RejectListing(ctx context.Context, id uuid.UUID) (*listing.DetailResponse, error) {
	resp, err := s.listings.Moderate(ctx, id, false)
	if err != nil {
		return nil, err
	}

	vendorID, _ := uuid.Parse(resp.VendorID)
	s.notifyVendor(ctx, vendorID, notification.TypeListingRejected,
		"Listing rejected",
		fmt.Sprintf("Your listing %q was not approved", resp.Name), id)

	return resp, nil
}

// SetBanned bans or unbans a user (admin only, enforced by router)
func (s *Service) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return user.ErrNotFound
	}

	if err := s.users.UpdateBanned(ctx, id, banned); err != nil {
		return fmt.Errorf("failed to update ban state: %w", err)
	}

	log.Info().
		Str("user_id", id.String()).
		Bool("banned", banned).
		Msg("User ban state changed")

	return nil
}

func (s *Service) notifyVendor(ctx context.Context, vendorID uuid.UUID, typ notification.Type, title, body string, refID uuid.UUID) {
	if s.notifier == nil || vendorID == uuid.Nil {
		return
	}
	if err := s.notifier.Notify(ctx, vendorID, typ, title, body, refID); err != nil {
		log.Warn().Err(err).Str("vendor_id", vendorID.String()).Msg("Failed to notify vendor")
	}
}
