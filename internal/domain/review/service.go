package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
)

// Service handles review business logic
type Service struct {
	repo     Repository
	listings *listing.Service
	users    user.Repository
}

// NewService creates review service
func NewService(repo Repository, listings *listing.Service, users user.Repository) *Service {
	return &Service{repo: repo, listings: listings, users: users}
}

// Create adds a review and returns the listing with its refreshed rating.
// One review per user per listing.
func (s *Service) Create(ctx context.Context, authorID, listingID uuid.UUID, req CreateRequest) (*listing.DetailResponse, error) {
	l, err := s.listings.GetEntity(ctx, listingID)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		return nil, user.ErrNotFound
	}

	rev := &Review{
		ID:         uuid.New(),
		ListingID:  listingID,
		AuthorID:   authorID,
		AuthorName: author.FullName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	avg, count, err := s.repo.CreateWithRating(ctx, rev)
	if err != nil {
		return nil, err
	}

	s.listings.InvalidateCategory(ctx, l.Category)

	log.Info().
		Str("review_id", rev.ID.String()).
		Str("listing_id", listingID.String()).
		Int("rating", req.Rating).
		Msg("Review created")

	l.RatingAvg = avg
	l.RatingCount = count
	resp := listing.ToDetailResponse(l)
	return &resp, nil
}

// List returns a listing's reviews, newest first
func (s *Service) List(ctx context.Context, listingID uuid.UUID, page, limit int) ([]Response, int, error) {
	if _, err := s.listings.GetEntity(ctx, listingID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reviews, total, err := s.repo.ListByListing(ctx, listingID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	results := make([]Response, 0, len(reviews))
	for _, rev := range reviews {
		results = append(results, toResponse(rev))
	}
	return results, total, nil
}

// Summary returns the aggregate plus the most recent reviews
func (s *Service) Summary(ctx context.Context, listingID uuid.UUID) (*SummaryResponse, error) {
	if _, err := s.listings.GetEntity(ctx, listingID); err != nil {
		return nil, err
	}

	summary, err := s.repo.Summarize(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	recent, _, err := s.repo.ListByListing(ctx, listingID, 5, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}

	resp := &SummaryResponse{Summary: *summary, Recent: make([]Response, 0, len(recent))}
	for _, rev := range recent {
		resp.Recent = append(resp.Recent, toResponse(rev))
	}
	return resp, nil
}

// Delete removes a review (author or admin) and refreshes the aggregate
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if rev == nil {
		return ErrNotFound
	}
	if !isAdmin && rev.AuthorID != actorID {
		return ErrNotAuthor
	}

	if err := s.repo.DeleteWithRating(ctx, rev); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if l, err := s.listings.GetEntity(ctx, rev.ListingID); err == nil {
		s.listings.InvalidateCategory(ctx, l.Category)
	}

	log.Info().
		Str("review_id", id.String()).
		Str("actor_id", actorID.String()).
		Msg("Review deleted")

	return nil
}
