package review

import "errors"

var (
	ErrNotFound  = errors.New("review not found")
	ErrDuplicate = errors.New("listing already reviewed by this user")
	ErrNotAuthor = errors.New("review belongs to another user")
)
