package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/notification"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/ticket"
)

// Notifier delivers notifications to booking counterparties
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, typ notification.Type, title, body string, refID uuid.UUID) error
}

// EventPublisher fans booking lifecycle events out to the message broker
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// Service handles booking business logic
type Service struct {
	repo      Repository
	listings  *listing.Service
	users     user.Repository
	notifier  Notifier
	publisher EventPublisher
	tickets   *ticket.Generator
}

// NewService creates booking service
func NewService(repo Repository, listings *listing.Service, users user.Repository, notifier Notifier, publisher EventPublisher, tickets *ticket.Generator) *Service {
	return &Service{
		repo:      repo,
		listings:  listings,
		users:     users,
		notifier:  notifier,
		publisher: publisher,
		tickets:   tickets,
	}
}

// Create places a pending booking. Role gating (guest only) happens in the
// router before the request reaches here.
func (s *Service) Create(ctx context.Context, guestID uuid.UUID, req CreateRequest) (*Response, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, listing.ErrNotFound
	}

	l, err := s.listings.GetEntity(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusActive {
		return nil, listing.ErrNotFound
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date: %w", err)
	}
	// Build today from the local calendar date; Truncate would round to
	// UTC epoch days and misjudge "today" on non-UTC servers.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if eventDate.Before(today) {
		return nil, ErrPastEventDate
	}
	b := &Booking{
		ID:          uuid.New(),
		ListingID:   listingID,
		GuestID:     guestID,
		VendorID:    l.VendorID,
		ListingName: l.Name,
		Category:    string(l.Category),
		City:        l.City,
		EventDate:   eventDate,
		EventTime:   req.EventTime,
		GuestCount:  req.GuestCount,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if price, ok := l.ComparablePrice(); ok {
		total := price
		if l.PriceUnit == "per_plate" {
			total = price * int64(req.GuestCount)
		}
		b.TotalPrice = sql.NullInt64{Int64: total, Valid: true}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("listing_id", listingID.String()).
		Str("guest_id", guestID.String()).
		Msg("Booking created")

	s.notify(ctx, l.VendorID, notification.TypeBookingCreated,
		"New booking request",
		fmt.Sprintf("%s has a new booking request for %s", l.Name, req.EventDate), b.ID)
	s.publish(b)

	resp := toResponse(b)
	return &resp, nil
}

// GuestBookings returns the guest's bookings
func (s *Service) GuestBookings(ctx context.Context, guestID uuid.UUID, status Status, page, limit int) ([]Response, int, error) {
	page, limit = clampPage(page, limit)
	bookings, total, err := s.repo.ListByGuest(ctx, guestID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list guest bookings: %w", err)
	}
	return toResponses(bookings), total, nil
}

// VendorBookings returns the vendor's incoming bookings
func (s *Service) VendorBookings(ctx context.Context, vendorID uuid.UUID, status Status, page, limit int) ([]Response, int, error) {
	page, limit = clampPage(page, limit)
	bookings, total, err := s.repo.ListByVendor(ctx, vendorID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vendor bookings: %w", err)
	}
	return toResponses(bookings), total, nil
}

// Cancel cancels a pending or confirmed booking (guest side)
func (s *Service) Cancel(ctx context.Context, guestID, id uuid.UUID) (*Response, error) {
	b, err := s.getOwned(ctx, id, guestID, false)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}
	b.Status = StatusCancelled

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.notify(ctx, b.VendorID, notification.TypeBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("The booking for %s on %s was cancelled by the guest",
			b.ListingName, b.EventDate.Format("2006-01-02")), b.ID)
	s.publish(b)

	resp := toResponse(b)
	return &resp, nil
}

// Confirm accepts a pending booking (vendor side)
func (s *Service) Confirm(ctx context.Context, vendorID, id uuid.UUID, notes string) (*Response, error) {
	b, err := s.getOwned(ctx, id, vendorID, true)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, StatusConfirmed) {
		return nil, ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	if notes != "" {
		b.VendorNotes = sql.NullString{String: notes, Valid: true}
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.notify(ctx, b.GuestID, notification.TypeBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your booking for %s on %s is confirmed",
			b.ListingName, b.EventDate.Format("2006-01-02")), b.ID)
	s.publish(b)

	resp := toResponse(b)
	return &resp, nil
}

// Reject declines a pending booking with a reason (vendor side)
func (s *Service) Reject(ctx context.Context, vendorID, id uuid.UUID, reason string) (*Response, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.getOwned(ctx, id, vendorID, true)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, StatusRejected) {
		return nil, ErrInvalidTransition
	}
	b.Status = StatusRejected
	b.RejectionReason = sql.NullString{String: reason, Valid: true}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.notify(ctx, b.GuestID, notification.TypeBookingRejected,
		"Booking rejected",
		fmt.Sprintf("Your booking for %s was rejected: %s", b.ListingName, reason), b.ID)
	s.publish(b)

	resp := toResponse(b)
	return &resp, nil
}

// Complete marks a confirmed booking completed after the event date
func (s *Service) Complete(ctx context.Context, vendorID, id uuid.UUID) (*Response, error) {
	b, err := s.getOwned(ctx, id, vendorID, true)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, StatusCompleted) {
		return nil, ErrInvalidTransition
	}
	if b.EventDate.After(time.Now()) {
		return nil, ErrNotYetHeld
	}
	b.Status = StatusCompleted

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.notify(ctx, b.GuestID, notification.TypeBookingCompleted,
		"Booking completed",
		fmt.Sprintf("Your booking for %s is complete. Leave a review!", b.ListingName), b.ID)
	s.publish(b)

	resp := toResponse(b)
	return &resp, nil
}

// Ticket renders the confirmation PDF for a confirmed booking (guest side)
func (s *Service) Ticket(ctx context.Context, guestID, id uuid.UUID) ([]byte, error) {
	b, err := s.getOwned(ctx, id, guestID, false)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	guestName := ""
	if g, err := s.users.GetByID(ctx, guestID); err == nil && g != nil {
		guestName = g.FullName
	}

	var total int64
	if b.TotalPrice.Valid {
		total = b.TotalPrice.Int64
	}

	details := ticket.Details{
		BookingID:   b.ID.String(),
		ListingName: b.ListingName,
		Category:    b.Category,
		GuestName:   guestName,
		EventDate:   b.EventDate.Format("2006-01-02"),
		EventTime:   b.EventTime,
		GuestCount:  b.GuestCount,
		TotalPrice:  total,
		City:        b.City,
	}
	payload := s.tickets.QRPayload(b.ID.String(), b.ListingID.String())

	pdf, err := s.tickets.Render(details, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return pdf, nil
}

// getOwned loads the booking and checks the actor is its guest or vendor
func (s *Service) getOwned(ctx context.Context, id, actorID uuid.UUID, vendorSide bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	owner := b.GuestID
	if vendorSide {
		owner = b.VendorID
	}
	if owner != actorID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// notify is best-effort: a failed notification never rolls back a booking
func (s *Service) notify(ctx context.Context, userID uuid.UUID, typ notification.Type, title, body string, refID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, typ, title, body, refID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to notify")
	}
}

// publish is best-effort fanout to the bookings exchange
func (s *Service) publish(b *Booking) {
	if s.publisher == nil {
		return
	}
	event := Event{
		BookingID: b.ID.String(),
		ListingID: b.ListingID.String(),
		GuestID:   b.GuestID.String(),
		VendorID:  b.VendorID.String(),
		Status:    string(b.Status),
		EventDate: b.EventDate.Format("2006-01-02"),
		Timestamp: time.Now().Unix(),
	}
	if err := s.publisher.Publish("booking."+string(b.Status), event); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("Failed to publish booking event")
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func toResponses(bookings []*Booking) []Response {
	out := make([]Response, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResponse(b))
	}
	return out
}
