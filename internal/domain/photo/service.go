package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
)

// WakeChannel is the Redis channel the image worker subscribes to.
// Uploads publish here so pending photos get picked up without waiting
// for the next poll tick.
const WakeChannel = "photos:pending"

// Response is the photo API payload
type Response struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	URL       string    `json:"url"`
	ThumbURL  string    `json:"thumb_url,omitempty"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Service handles photo business logic
type Service struct {
	repo     Repository
	listings *listing.Service
	store    storage.Storage
	redis    *redis.Client
	maxSize  int64
}

// NewService creates photo service. redisClient may be nil; uploads then
// rely on the worker's poll loop alone.
func NewService(repo Repository, listings *listing.Service, store storage.Storage, redisClient *redis.Client, maxSize int64) *Service {
	return &Service{repo: repo, listings: listings, store: store, redis: redisClient, maxSize: maxSize}
}

// Upload validates and stores a listing photo, records a pending
// processing row, and wakes the image worker. The first photo on a
// listing becomes its main image.
func (s *Service) Upload(ctx context.Context, actorID uuid.UUID, isAdmin bool, listingID uuid.UUID, file io.Reader) (*Response, error) {
	l, err := s.listings.GetEntity(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && l.VendorID != actorID {
		return nil, ErrNotOwner
	}

	data, mimeType, err := storage.ValidateImage(file, s.maxSize)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("listings/%s/%s%s", listingID, id, extensionFor(mimeType))

	if err := s.store.Put(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	now := time.Now()
	p := &Photo{
		ID:        id,
		ListingID: listingID,
		Key:       key,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to clean up orphaned photo object")
		}
		return nil, err
	}

	url := s.store.GetURL(key)
	main, gallery := l.MainImage, []string(l.Gallery)
	if main == "" {
		main = url
	} else {
		gallery = append(gallery, url)
	}
	if err := s.listings.SetImages(ctx, listingID, main, gallery); err != nil {
		return nil, err
	}

	s.wakeWorker(ctx, p.ID)

	log.Info().
		Str("photo_id", p.ID.String()).
		Str("listing_id", listingID.String()).
		Int64("size_bytes", p.SizeBytes).
		Msg("Photo uploaded")

	resp := s.toResponse(p)
	return &resp, nil
}

// List returns a listing's photos with processing statuses (owner view)
func (s *Service) List(ctx context.Context, actorID uuid.UUID, isAdmin bool, listingID uuid.UUID) ([]Response, error) {
	l, err := s.listings.GetEntity(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && l.VendorID != actorID {
		return nil, ErrNotOwner
	}

	photos, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	results := make([]Response, 0, len(photos))
	for _, p := range photos {
		results = append(results, s.toResponse(p))
	}
	return results, nil
}

// Delete removes a photo from storage, its processing row, and the
// listing's image set. When the main image is removed the first gallery
// image is promoted.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, photoID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}

	l, err := s.listings.GetEntity(ctx, p.ListingID)
	if err != nil {
		if !errors.Is(err, listing.ErrNotFound) {
			return err
		}
		// Orphaned photo (listing soft-deleted): only admins clean these up
		if !isAdmin {
			return ErrNotOwner
		}
		l = nil
	}
	if l != nil && !isAdmin && l.VendorID != actorID {
		return ErrNotOwner
	}

	if err := s.store.Delete(ctx, p.Key); err != nil {
		log.Warn().Err(err).Str("key", p.Key).Msg("Failed to delete photo object")
	}
	if p.ThumbKey.Valid {
		if err := s.store.Delete(ctx, p.ThumbKey.String); err != nil {
			log.Warn().Err(err).Str("key", p.ThumbKey.String).Msg("Failed to delete thumbnail object")
		}
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return err
	}

	if l != nil {
		url := s.store.GetURL(p.Key)
		main, gallery := removeImage(l.MainImage, l.Gallery, url)
		if err := s.listings.SetImages(ctx, l.ID, main, gallery); err != nil {
			return err
		}
	}

	log.Info().
		Str("photo_id", photoID.String()).
		Str("listing_id", p.ListingID.String()).
		Msg("Photo deleted")

	return nil
}

// SetMain promotes a processed photo to the listing's main image. The
// previous main image moves into the gallery.
func (s *Service) SetMain(ctx context.Context, actorID uuid.UUID, isAdmin bool, photoID uuid.UUID) (*listing.DetailResponse, error) {
	p, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Status != StatusDone {
		return nil, ErrNotProcessed
	}

	l, err := s.listings.GetEntity(ctx, p.ListingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && l.VendorID != actorID {
		return nil, ErrNotOwner
	}

	url := s.store.GetURL(p.Key)
	_, gallery := removeImage(l.MainImage, l.Gallery, url)
	if l.MainImage != "" && l.MainImage != url {
		gallery = append([]string{l.MainImage}, gallery...)
	}

	if err := s.listings.SetImages(ctx, l.ID, url, gallery); err != nil {
		return nil, err
	}

	return s.listings.Get(ctx, l.ID)
}

func (s *Service) wakeWorker(ctx context.Context, photoID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Publish(ctx, WakeChannel, photoID.String()).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to publish photo wake-up")
	}
}

func (s *Service) toResponse(p *Photo) Response {
	resp := Response{
		ID:        p.ID.String(),
		ListingID: p.ListingID.String(),
		URL:       s.store.GetURL(p.Key),
		MimeType:  p.MimeType,
		SizeBytes: p.SizeBytes,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
	if p.ThumbKey.Valid {
		resp.ThumbURL = s.store.GetURL(p.ThumbKey.String)
	}
	return resp
}

// removeImage drops url from the image set, promoting the first gallery
// image when the main image is the one removed.
func removeImage(main string, gallery []string, url string) (string, []string) {
	filtered := make([]string, 0, len(gallery))
	for _, g := range gallery {
		if g != url {
			filtered = append(filtered, g)
		}
	}
	if main == url {
		main = ""
		if len(filtered) > 0 {
			main = filtered[0]
			filtered = filtered[1:]
		}
	}
	return main, filtered
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
