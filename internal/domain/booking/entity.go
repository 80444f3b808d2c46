package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// transitions maps each status to its legal successors
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether from → to is a legal transition
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking represents a service booking (matches bookings table)
type Booking struct {
	ID              uuid.UUID      `db:"id"`
	ListingID       uuid.UUID      `db:"listing_id"`
	GuestID         uuid.UUID      `db:"guest_id"`
	VendorID        uuid.UUID      `db:"vendor_id"`
	ListingName     string         `db:"listing_name"`
	Category        string         `db:"category"`
	City            string         `db:"city"`
	EventDate       time.Time      `db:"event_date"`
	EventTime       string         `db:"event_time"`
	GuestCount      int            `db:"guest_count"`
	Status          Status         `db:"status"`
	VendorNotes     sql.NullString `db:"vendor_notes"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	TotalPrice      sql.NullInt64  `db:"total_price"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
