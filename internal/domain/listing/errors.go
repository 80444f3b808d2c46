package listing

import "errors"

var (
	ErrNotFound        = errors.New("listing not found")
	ErrNotOwner        = errors.New("listing belongs to another vendor")
	ErrInvalidCategory = errors.New("invalid listing category")
	ErrInvalidBucket   = errors.New("unknown price bucket")
	ErrNotModerable    = errors.New("listing is not pending moderation")
)
