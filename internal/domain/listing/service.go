package listing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles listing business logic
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService creates listing service
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Browse returns the filtered, paginated active collection for a category.
// The per-category snapshot comes from cache when warm; criteria are applied
// in memory so bucket and capacity semantics stay in one place.
func (s *Service) Browse(ctx context.Context, category Category, criteria FilterCriteria, page, limit int) ([]Response, int, error) {
	if !IsValidCategory(string(category)) {
		return nil, 0, ErrInvalidCategory
	}

	snapshot := s.cache.Get(ctx, category)
	if snapshot == nil {
		var err error
		snapshot, err = s.repo.ListActiveByCategory(ctx, category)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load listings: %w", err)
		}
		s.cache.Set(ctx, category, snapshot)
	}

	filtered := criteria.Apply(snapshot)
	total := len(filtered)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	results := make([]Response, 0, end-start)
	for _, l := range filtered[start:end] {
		results = append(results, ToResponse(l))
	}
	return results, total, nil
}

// Get returns the listing detail payload
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DetailResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return nil, ErrNotFound
	}

	resp := ToDetailResponse(l)
	return &resp, nil
}

// GetEntity returns the raw listing for cross-domain use (bookings, photos)
func (s *Service) GetEntity(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

// Create creates a pending listing for a vendor
func (s *Service) Create(ctx context.Context, vendorID uuid.UUID, req CreateRequest) (*DetailResponse, error) {
	now := time.Now()
	l := &Listing{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Category:    Category(req.Category),
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Area:        req.Area,
		Address:     req.Address,
		Pincode:     req.Pincode,
		PriceUnit:   req.PriceUnit,
		Amenities:   req.Amenities,
		Features:    req.Features,
		Packages:    packagesFromInput(req.Packages),
		Details:     req.Details,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyOptionalInts(l, req.BasePrice, req.CapacityMin, req.CapacityMax)

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	log.Info().
		Str("listing_id", l.ID.String()).
		Str("vendor_id", vendorID.String()).
		Str("category", string(l.Category)).
		Msg("Listing created")

	resp := ToDetailResponse(l)
	return &resp, nil
}

// Update updates a listing owned by the vendor. Admins bypass the
// ownership check. Edits to an active listing keep it active.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, req UpdateRequest) (*DetailResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if !isAdmin && l.VendorID != actorID {
		return nil, ErrNotOwner
	}

	l.Name = req.Name
	l.Description = req.Description
	l.City = req.City
	l.Area = req.Area
	l.Address = req.Address
	l.Pincode = req.Pincode
	l.PriceUnit = req.PriceUnit
	l.Amenities = req.Amenities
	l.Features = req.Features
	l.Packages = packagesFromInput(req.Packages)
	l.Details = req.Details
	applyOptionalInts(l, req.BasePrice, req.CapacityMin, req.CapacityMax)

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	s.cache.Invalidate(ctx, l.Category)

	resp := ToDetailResponse(l)
	return &resp, nil
}

// Delete soft-deletes a listing (owner or admin)
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return ErrNotFound
	}
	if !isAdmin && l.VendorID != actorID {
		return ErrNotOwner
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.cache.Invalidate(ctx, l.Category)

	log.Info().
		Str("listing_id", id.String()).
		Str("actor_id", actorID.String()).
		Msg("Listing deleted")

	return nil
}

// VendorListings returns a vendor's own listings in any status
func (s *Service) VendorListings(ctx context.Context, vendorID uuid.UUID, page, limit int) ([]Response, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	listings, total, err := s.repo.List(ctx, Filter{
		VendorID: vendorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vendor listings: %w", err)
	}

	results := make([]Response, 0, len(listings))
	for _, l := range listings {
		results = append(results, ToResponse(l))
	}
	return results, total, nil
}

// ListByStatus returns listings in a moderation status (admin queue)
func (s *Service) ListByStatus(ctx context.Context, status Status, page, limit int) ([]Response, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	listings, total, err := s.repo.List(ctx, Filter{
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}

	results := make([]Response, 0, len(listings))
	for _, l := range listings {
		results = append(results, ToResponse(l))
	}
	return results, total, nil
}

// Moderate approves or rejects a pending listing
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, approve bool) (*DetailResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if l.Status != StatusPending {
		return nil, ErrNotModerable
	}

	status := StatusRejected
	if approve {
		status = StatusActive
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update listing status: %w", err)
	}
	l.Status = status

	s.cache.Invalidate(ctx, l.Category)

	log.Info().
		Str("listing_id", id.String()).
		Str("status", string(status)).
		Msg("Listing moderated")

	resp := ToDetailResponse(l)
	return &resp, nil
}

// SetImages replaces a listing's image set and refreshes the category
// snapshot. Called by the photo domain after uploads and deletions.
func (s *Service) SetImages(ctx context.Context, id uuid.UUID, mainImage string, gallery []string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}
	if l == nil {
		return ErrNotFound
	}

	l.MainImage = mainImage
	l.Gallery = gallery

	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("failed to update listing images: %w", err)
	}

	s.cache.Invalidate(ctx, l.Category)
	return nil
}

// InvalidateCategory drops the cached snapshot (used by review writes)
func (s *Service) InvalidateCategory(ctx context.Context, category Category) {
	s.cache.Invalidate(ctx, category)
}

func packagesFromInput(input []PackageInput) PackageList {
	if len(input) == 0 {
		return nil
	}
	packages := make(PackageList, 0, len(input))
	for _, p := range input {
		packages = append(packages, Package{Name: p.Name, Price: p.Price, Items: p.Items})
	}
	return packages
}

func applyOptionalInts(l *Listing, basePrice, capMin, capMax *int64) {
	l.BasePrice = sql.NullInt64{}
	if basePrice != nil {
		l.BasePrice = sql.NullInt64{Int64: *basePrice, Valid: true}
	}
	l.CapacityMin = sql.NullInt64{}
	if capMin != nil {
		l.CapacityMin = sql.NullInt64{Int64: *capMin, Valid: true}
	}
	l.CapacityMax = sql.NullInt64{}
	if capMax != nil {
		l.CapacityMax = sql.NullInt64{Int64: *capMax, Valid: true}
	}
}
