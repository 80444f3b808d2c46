package review

import "time"

// CreateRequest represents review creation input
type CreateRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,min=3,max=2000"`
}

// Response represents a review in API output
type Response struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// SummaryResponse represents the review summary payload
type SummaryResponse struct {
	Summary
	Recent []Response `json:"recent"`
}

func toResponse(r *Review) Response {
	return Response{
		ID:         r.ID.String(),
		ListingID:  r.ListingID.String(),
		AuthorID:   r.AuthorID.String(),
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
