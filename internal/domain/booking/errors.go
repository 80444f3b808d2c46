package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrNotParticipant    = errors.New("booking belongs to another user")
	ErrConflict          = errors.New("listing already booked for this date")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrPastEventDate     = errors.New("event date is in the past")
	ErrNotYetHeld        = errors.New("event has not taken place yet")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrNotConfirmed      = errors.New("booking is not confirmed")
)
