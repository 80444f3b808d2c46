package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies notifications
type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingRejected  Type = "booking_rejected"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingCompleted Type = "booking_completed"
	TypeListingApproved  Type = "listing_approved"
	TypeListingRejected  Type = "listing_rejected"
)

// Notification represents a user notification (matches notifications table)
type Notification struct {
	ID        uuid.UUID     `db:"id"`
	UserID    uuid.UUID     `db:"user_id"`
	Type      Type          `db:"type"`
	Title     string        `db:"title"`
	Body      string        `db:"body"`
	RefID     uuid.NullUUID `db:"ref_id"`
	IsRead    bool          `db:"is_read"`
	CreatedAt time.Time     `db:"created_at"`
}
