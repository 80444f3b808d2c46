package photo

import "errors"

var (
	ErrNotFound     = errors.New("photo not found")
	ErrNotOwner     = errors.New("photo belongs to another vendor's listing")
	ErrNotProcessed = errors.New("photo is not processed yet")
)
