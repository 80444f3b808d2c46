package photo

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/imaging"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
)

type fakePhotoRepo struct {
	photos map[uuid.UUID]*Photo
	done   map[uuid.UUID]string
	failed map[uuid.UUID]string
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos: make(map[uuid.UUID]*Photo),
		done:   make(map[uuid.UUID]string),
		failed: make(map[uuid.UUID]string),
	}
}

func (f *fakePhotoRepo) Create(_ context.Context, p *Photo) error { f.photos[p.ID] = p; return nil }
func (f *fakePhotoRepo) GetByID(_ context.Context, id uuid.UUID) (*Photo, error) {
	return f.photos[id], nil
}
func (f *fakePhotoRepo) ListByListing(_ context.Context, listingID uuid.UUID) ([]*Photo, error) {
	var out []*Photo
	for _, p := range f.photos {
		if p.ListingID == listingID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakePhotoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.photos[id]; !ok {
		return ErrNotFound
	}
	delete(f.photos, id)
	return nil
}
func (f *fakePhotoRepo) ClaimNextPending(_ context.Context) (*Photo, error) {
	cutoff := time.Now().Add(-StaleClaimAfter)
	for _, p := range f.photos {
		if p.Attempts >= MaxAttempts {
			continue
		}
		if p.Status == StatusPending || (p.Status == StatusProcessing && p.UpdatedAt.Before(cutoff)) {
			p.Status = StatusProcessing
			p.Attempts++
			p.UpdatedAt = time.Now()
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakePhotoRepo) MarkDone(_ context.Context, id uuid.UUID, thumbKey string) error {
	f.done[id] = thumbKey
	return nil
}
func (f *fakePhotoRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	f.failed[id] = reason
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}
func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}
func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}
func (f *fakeStorage) GetURL(key string) string { return "https://cdn.test/" + key }

type fakeListingRepo struct {
	listings map[uuid.UUID]*listing.Listing
}

func (f *fakeListingRepo) Create(_ context.Context, l *listing.Listing) error {
	f.listings[l.ID] = l
	return nil
}
func (f *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	return f.listings[id], nil
}
func (f *fakeListingRepo) Update(_ context.Context, l *listing.Listing) error {
	f.listings[l.ID] = l
	return nil
}
func (f *fakeListingRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(f.listings, id)
	return nil
}
func (f *fakeListingRepo) List(_ context.Context, _ listing.Filter) ([]*listing.Listing, int, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) ListActiveByCategory(_ context.Context, _ listing.Category) ([]*listing.Listing, error) {
	return nil, nil
}
func (f *fakeListingRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ listing.Status) error {
	return nil
}
func (f *fakeListingRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	return nil, nil
}

type photoFixture struct {
	svc       *Service
	repo      *fakePhotoRepo
	store     *fakeStorage
	listings  *fakeListingRepo
	vendor    uuid.UUID
	listingID uuid.UUID
}

func newPhotoFixture(t *testing.T) *photoFixture {
	t.Helper()

	vendor := uuid.New()
	l := &listing.Listing{
		ID:       uuid.New(),
		VendorID: vendor,
		Category: listing.CategoryMarriageGarden,
		Name:     "Rose Garden",
		City:     "Indore",
		Status:   listing.StatusActive,
	}

	listingRepo := &fakeListingRepo{listings: map[uuid.UUID]*listing.Listing{l.ID: l}}
	listingSvc := listing.NewService(listingRepo, listing.NewCache(nil))

	repo := newFakePhotoRepo()
	store := newFakeStorage()
	svc := NewService(repo, listingSvc, store, nil, 5<<20)

	return &photoFixture{
		svc:       svc,
		repo:      repo,
		store:     store,
		listings:  listingRepo,
		vendor:    vendor,
		listingID: l.ID,
	}
}

// pngBytes encodes a small PNG for upload tests
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadFirstPhotoBecomesMain(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if resp.Status != string(StatusPending) {
		t.Errorf("status = %q, want %q", resp.Status, StatusPending)
	}
	if resp.MimeType != "image/png" {
		t.Errorf("mime type = %q, want image/png", resp.MimeType)
	}

	l := f.listings.listings[f.listingID]
	if l.MainImage != resp.URL {
		t.Errorf("main image = %q, want %q", l.MainImage, resp.URL)
	}
	if len(l.Gallery) != 0 {
		t.Errorf("gallery = %v, want empty", l.Gallery)
	}
	if len(f.repo.photos) != 1 {
		t.Fatalf("photo rows = %d, want 1", len(f.repo.photos))
	}
}

func TestUploadSecondPhotoAppendsGallery(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 6, 6)))
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	l := f.listings.listings[f.listingID]
	if l.MainImage != first.URL {
		t.Errorf("main image = %q, want %q", l.MainImage, first.URL)
	}
	if len(l.Gallery) != 1 || l.Gallery[0] != second.URL {
		t.Errorf("gallery = %v, want [%q]", l.Gallery, second.URL)
	}
}

func TestUploadOwnership(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	stranger := uuid.New()
	if _, err := f.svc.Upload(ctx, stranger, false, f.listingID, bytes.NewReader(pngBytes(t, 4, 4))); !errors.Is(err, ErrNotOwner) {
		t.Errorf("stranger Upload() error = %v, want ErrNotOwner", err)
	}
	if len(f.repo.photos) != 0 {
		t.Errorf("photo rows = %d, want 0 after denied upload", len(f.repo.photos))
	}

	// Admins bypass the ownership check
	if _, err := f.svc.Upload(ctx, stranger, true, f.listingID, bytes.NewReader(pngBytes(t, 4, 4))); err != nil {
		t.Errorf("admin Upload() error = %v", err)
	}
}

func TestUploadRejectsInvalidType(t *testing.T) {
	f := newPhotoFixture(t)

	_, err := f.svc.Upload(context.Background(), f.vendor, false, f.listingID, bytes.NewReader([]byte("not an image at all")))
	if !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("Upload() error = %v, want ErrInvalidMimeType", err)
	}
	if len(f.store.objects) != 0 {
		t.Errorf("stored objects = %d, want 0", len(f.store.objects))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := newPhotoFixture(t)
	f.svc.maxSize = 64

	_, err := f.svc.Upload(context.Background(), f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 50, 50)))
	if !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("Upload() error = %v, want ErrFileTooLarge", err)
	}
}

func TestDeleteMainPromotesGallery(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 6, 6)))
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	firstID, err := uuid.Parse(first.ID)
	if err != nil {
		t.Fatalf("parse photo id: %v", err)
	}
	if err := f.svc.Delete(ctx, f.vendor, false, firstID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	l := f.listings.listings[f.listingID]
	if l.MainImage != second.URL {
		t.Errorf("main image = %q, want promoted %q", l.MainImage, second.URL)
	}
	if len(l.Gallery) != 0 {
		t.Errorf("gallery = %v, want empty", l.Gallery)
	}
	if len(f.repo.photos) != 1 {
		t.Errorf("photo rows = %d, want 1", len(f.repo.photos))
	}
}

func TestSetMainRequiresProcessedPhoto(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 4, 4))); err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := f.svc.Upload(ctx, f.vendor, false, f.listingID, bytes.NewReader(pngBytes(t, 6, 6)))
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	secondID, err := uuid.Parse(second.ID)
	if err != nil {
		t.Fatalf("parse photo id: %v", err)
	}

	if _, err := f.svc.SetMain(ctx, f.vendor, false, secondID); !errors.Is(err, ErrNotProcessed) {
		t.Fatalf("SetMain() on pending photo error = %v, want ErrNotProcessed", err)
	}

	f.repo.photos[secondID].Status = StatusDone

	detail, err := f.svc.SetMain(ctx, f.vendor, false, secondID)
	if err != nil {
		t.Fatalf("SetMain() error = %v", err)
	}
	if len(detail.Images) == 0 || detail.Images[0] != second.URL {
		t.Errorf("images = %v, want %q first", detail.Images, second.URL)
	}

	l := f.listings.listings[f.listingID]
	if l.MainImage != second.URL {
		t.Errorf("main image = %q, want %q", l.MainImage, second.URL)
	}
	if len(l.Gallery) != 1 {
		t.Errorf("gallery = %v, want previous main demoted into it", l.Gallery)
	}
}

func TestWorkerProcessesPhoto(t *testing.T) {
	repo := newFakePhotoRepo()
	store := newFakeStorage()
	worker := NewWorker(repo, store, imaging.NewProcessor(imaging.DefaultConfig()), nil)

	key := "listings/abc/photo.png"
	store.objects[key] = pngBytes(t, 30, 20)

	p := &Photo{
		ID:        uuid.New(),
		ListingID: uuid.New(),
		Key:       key,
		MimeType:  "image/png",
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	repo.photos[p.ID] = p

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	worker.drain(ctx)

	thumbKey, ok := repo.done[p.ID]
	if !ok {
		t.Fatalf("photo not marked done; failures = %v", repo.failed)
	}
	if thumbKey != "listings/abc/photo_thumb.png" {
		t.Errorf("thumb key = %q, want listings/abc/photo_thumb.png", thumbKey)
	}
	if _, ok := store.objects[thumbKey]; !ok {
		t.Errorf("thumbnail object missing at %q", thumbKey)
	}
}

func TestWorkerReclaimsStaleProcessing(t *testing.T) {
	repo := newFakePhotoRepo()
	store := newFakeStorage()
	worker := NewWorker(repo, store, imaging.NewProcessor(imaging.DefaultConfig()), nil)

	// Claimed long ago by a worker that never finished
	staleKey := "listings/abc/stale.png"
	store.objects[staleKey] = pngBytes(t, 30, 20)
	stale := &Photo{
		ID:        uuid.New(),
		ListingID: uuid.New(),
		Key:       staleKey,
		MimeType:  "image/png",
		Status:    StatusProcessing,
		Attempts:  1,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	repo.photos[stale.ID] = stale

	// Claimed just now by a live worker, must stay untouched
	fresh := &Photo{
		ID:        uuid.New(),
		ListingID: uuid.New(),
		Key:       "listings/abc/fresh.png",
		MimeType:  "image/png",
		Status:    StatusProcessing,
		Attempts:  1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.photos[fresh.ID] = fresh

	worker.drain(context.Background())

	if _, ok := repo.done[stale.ID]; !ok {
		t.Fatalf("stale claim was not reprocessed; failures = %v", repo.failed)
	}
	if stale.Attempts != 2 {
		t.Errorf("stale attempts = %d, want 2", stale.Attempts)
	}
	if _, ok := repo.done[fresh.ID]; ok {
		t.Error("live claim was reprocessed")
	}
}

func TestWorkerMarksCorruptPhotoFailed(t *testing.T) {
	repo := newFakePhotoRepo()
	store := newFakeStorage()
	worker := NewWorker(repo, store, imaging.NewProcessor(imaging.DefaultConfig()), nil)

	key := "listings/abc/broken.jpg"
	store.objects[key] = []byte("definitely not a jpeg")

	p := &Photo{
		ID:        uuid.New(),
		ListingID: uuid.New(),
		Key:       key,
		MimeType:  "image/jpeg",
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	repo.photos[p.ID] = p

	worker.drain(context.Background())

	if _, ok := repo.failed[p.ID]; !ok {
		t.Fatal("corrupt photo was not marked failed")
	}
}

func TestRemoveImage(t *testing.T) {
	tests := []struct {
		name        string
		main        string
		gallery     []string
		remove      string
		wantMain    string
		wantGallery []string
	}{
		{"from gallery", "a", []string{"b", "c"}, "b", "a", []string{"c"}},
		{"main promotes first", "a", []string{"b", "c"}, "a", "b", []string{"c"}},
		{"last image", "a", nil, "a", "", nil},
		{"not present", "a", []string{"b"}, "x", "a", []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, gallery := removeImage(tt.main, tt.gallery, tt.remove)
			if main != tt.wantMain {
				t.Errorf("main = %q, want %q", main, tt.wantMain)
			}
			if len(gallery) != len(tt.wantGallery) {
				t.Fatalf("gallery = %v, want %v", gallery, tt.wantGallery)
			}
			for i := range gallery {
				if gallery[i] != tt.wantGallery[i] {
					t.Errorf("gallery = %v, want %v", gallery, tt.wantGallery)
					break
				}
			}
		})
	}
}
