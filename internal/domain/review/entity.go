package review

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a listing review (matches reviews table)
type Review struct {
	ID         uuid.UUID `db:"id"`
	ListingID  uuid.UUID `db:"listing_id"`
	AuthorID   uuid.UUID `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

// Summary aggregates a listing's reviews
type Summary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}
