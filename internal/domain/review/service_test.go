package review

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
)

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

func (f *fakeListingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status listing.Status) error {
	if l, ok := f.listings[id]; ok {
		l.Status = status
	}
	return nil
}

func (f *fakeListingRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	return nil, nil
}

type fakeReviewRepo struct {
	reviews  map[uuid.UUID]*Review
	byAuthor map[string]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:  make(map[uuid.UUID]*Review),
		byAuthor: make(map[string]bool),
	}
}

func (f *fakeReviewRepo) key(listingID, authorID uuid.UUID) string {
	return listingID.String() + ":" + authorID.String()
}

func (f *fakeReviewRepo) CreateWithRating(_ context.Context, rev *Review) (float64, int, error) {
	k := f.key(rev.ListingID, rev.AuthorID)
	if f.byAuthor[k] {
		return 0, 0, ErrDuplicate
	}
	f.reviews[rev.ID] = rev
	f.byAuthor[k] = true

	sum, count := 0, 0
	for _, r := range f.reviews {
		if r.ListingID == rev.ListingID {
			sum += r.Rating
			count++
		}
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*Review, error) {
	return f.reviews[id], nil
}

func (f *fakeReviewRepo) ListByListing(_ context.Context, listingID uuid.UUID, _, _ int) ([]*Review, int, error) {
	var out []*Review
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviewRepo) Summarize(_ context.Context, listingID uuid.UUID) (*Summary, error) {
	s := &Summary{Distribution: make(map[int]int)}
	sum := 0
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			s.Distribution[r.Rating]++
			s.Count++
			sum += r.Rating
		}
	}
	if s.Count > 0 {
		s.Average = float64(sum) / float64(s.Count)
	}
	return s, nil
}

func (f *fakeReviewRepo) DeleteWithRating(_ context.Context, rev *Review) error {
	delete(f.reviews, rev.ID)
	delete(f.byAuthor, f.key(rev.ListingID, rev.AuthorID))
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByFirebaseUID(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *user.User) error            { return nil }
func (f *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (f *fakeUserRepo) UpdateBanned(_ context.Context, _ uuid.UUID, _ bool) error { return nil }
func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (f *fakeUserRepo) List(_ context.Context, _ string, _, _ int) ([]*user.User, int, error) {
	return nil, 0, nil
}

func setup(t *testing.T) (*Service, *listing.Listing, *user.User) {
	t.Helper()

	l := &listing.Listing{
		ID:       uuid.New(),
		VendorID: uuid.New(),
		Category: listing.CategoryPhotographer,
		Name:     "Test Studio",
		City:     "Indore",
		Status:   listing.StatusActive,
	}
	listingRepo := &fakeListingRepo{listings: map[uuid.UUID]*listing.Listing{l.ID: l}}
	listingSvc := listing.NewService(listingRepo, listing.NewCache(nil))

	author := &user.User{
		ID:       uuid.New(),
		Email:    "guest@example.com",
		FullName: "Test Guest",
		Role:     user.RoleGuest,
	}
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{author.ID: author}}

	svc := NewService(newFakeReviewRepo(), listingSvc, users)
	return svc, l, author
}

func TestCreateReturnsUpdatedListing(t *testing.T) {
	svc, l, author := setup(t)

	resp, err := svc.Create(context.Background(), author.ID, l.ID, CreateRequest{
		Rating:  4,
		Comment: "Great photographer, very professional",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if resp.ID != l.ID.String() {
		t.Errorf("expected listing %s in response, got %s", l.ID, resp.ID)
	}
	if resp.RatingCount != 1 {
		t.Errorf("expected rating count 1, got %d", resp.RatingCount)
	}
	if resp.RatingAvg != 4 {
		t.Errorf("expected rating avg 4, got %f", resp.RatingAvg)
	}
}

func TestCreateDuplicate(t *testing.T) {
	svc, l, author := setup(t)

	ctx := context.Background()
	req := CreateRequest{Rating: 5, Comment: "Excellent service overall"}
	if _, err := svc.Create(ctx, author.ID, l.ID, req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, author.ID, l.ID, req)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateUnknownListing(t *testing.T) {
	svc, _, author := setup(t)

	_, err := svc.Create(context.Background(), author.ID, uuid.New(), CreateRequest{
		Rating:  3,
		Comment: "Average experience here",
	})
	if !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("expected listing.ErrNotFound, got %v", err)
	}
}

func TestDeleteAuthorization(t *testing.T) {
	svc, l, author := setup(t)

	ctx := context.Background()
	if _, err := svc.Create(ctx, author.ID, l.ID, CreateRequest{
		Rating: 2, Comment: "Not what was promised",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var reviewID uuid.UUID
	repo := svc.repo.(*fakeReviewRepo)
	for id := range repo.reviews {
		reviewID = id
	}

	stranger := uuid.New()
	if err := svc.Delete(ctx, stranger, false, reviewID); !errors.Is(err, ErrNotAuthor) {
		t.Errorf("expected ErrNotAuthor for stranger, got %v", err)
	}

	// Admin can delete anyone's review
	if err := svc.Delete(ctx, stranger, true, reviewID); err != nil {
		t.Errorf("admin delete failed: %v", err)
	}
}

func TestSummary(t *testing.T) {
	svc, l, author := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, l.ID, CreateRequest{
		Rating: 5, Comment: "Wonderful experience",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Second author
	second := &user.User{ID: uuid.New(), FullName: "Second Guest", Role: user.RoleGuest}
	svc.users.(*fakeUserRepo).users[second.ID] = second
	if _, err := svc.Create(ctx, second.ID, l.ID, CreateRequest{
		Rating: 3, Comment: "Decent but pricey",
	}); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	summary, err := svc.Summary(ctx, l.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Count != 2 {
		t.Errorf("expected count 2, got %d", summary.Count)
	}
	if summary.Average != 4 {
		t.Errorf("expected average 4, got %f", summary.Average)
	}
	if summary.Distribution[5] != 1 || summary.Distribution[3] != 1 {
		t.Errorf("unexpected distribution: %v", summary.Distribution)
	}
	if len(summary.Recent) != 2 {
		t.Errorf("expected 2 recent reviews, got %d", len(summary.Recent))
	}
}
