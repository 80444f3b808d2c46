package booking

import "time"

// CreateRequest represents booking creation input
type CreateRequest struct {
	ListingID  string `json:"listing_id" validate:"required,uuid"`
	EventDate  string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime  string `json:"event_time" validate:"omitempty,datetime=15:04"`
	GuestCount int    `json:"guest_count" validate:"required,gte=1,lte=10000"`
}

// RejectRequest represents vendor rejection input
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ConfirmRequest represents vendor confirmation input
type ConfirmRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}

// Response represents a booking in API output
type Response struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	ListingName     string    `json:"listing_name"`
	Category        string    `json:"category"`
	City            string    `json:"city"`
	GuestID         string    `json:"guest_id"`
	VendorID        string    `json:"vendor_id"`
	EventDate       string    `json:"event_date"`
	EventTime       string    `json:"event_time,omitempty"`
	GuestCount      int       `json:"guest_count"`
	Status          string    `json:"status"`
	VendorNotes     string    `json:"vendor_notes,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	TotalPrice      *int64    `json:"total_price,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toResponse(b *Booking) Response {
	resp := Response{
		ID:          b.ID.String(),
		ListingID:   b.ListingID.String(),
		ListingName: b.ListingName,
		Category:    b.Category,
		City:        b.City,
		GuestID:     b.GuestID.String(),
		VendorID:    b.VendorID.String(),
		EventDate:   b.EventDate.Format("2006-01-02"),
		EventTime:   b.EventTime,
		GuestCount:  b.GuestCount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.VendorNotes.Valid {
		resp.VendorNotes = b.VendorNotes.String
	}
	if b.RejectionReason.Valid {
		resp.RejectionReason = b.RejectionReason.String
	}
	if b.TotalPrice.Valid {
		v := b.TotalPrice.Int64
		resp.TotalPrice = &v
	}
	return resp
}

// Event is the payload published to the bookings exchange
type Event struct {
	BookingID string `json:"booking_id"`
	ListingID string `json:"listing_id"`
	GuestID   string `json:"guest_id"`
	VendorID  string `json:"vendor_id"`
	Status    string `json:"status"`
	EventDate string `json:"event_date"`
	Timestamp int64  `json:"timestamp"`
}
