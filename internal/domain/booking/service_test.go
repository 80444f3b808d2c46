package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/notification"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/ticket"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *Booking) error {
	for _, existing := range f.bookings {
		if existing.ListingID == b.ListingID &&
			existing.EventDate.Equal(b.EventDate) &&
			!existing.Status.IsTerminal() {
			return ErrConflict
		}
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) ListByGuest(_ context.Context, guestID uuid.UUID, status Status, _, _ int) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.GuestID == guestID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookingRepo) ListByVendor(_ context.Context, vendorID uuid.UUID, status Status, _, _ int) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.VendorID == vendorID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, b *Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	return nil, nil
}

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
func (f *fakeListingRepo) Update(_ context.Context, _ *listing.Listing) error { return nil }
func (f *fakeListingRepo) SoftDelete(_ context.Context, _ uuid.UUID) error    { return nil }
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

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) { return nil, nil }
func (f *fakeUserRepo) GetByFirebaseUID(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *user.User) error                  { return nil }
func (f *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error                   { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakeUserRepo) UpdateBanned(_ context.Context, _ uuid.UUID, _ bool) error     { return nil }
func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (f *fakeUserRepo) List(_ context.Context, _ string, _, _ int) ([]*user.User, int, error) {
	return nil, 0, nil
}

type recordedNotification struct {
	userID uuid.UUID
	typ    notification.Type
}

type fakeNotifier struct {
	sent []recordedNotification
}

func (f *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, typ notification.Type, _, _ string, _ uuid.UUID) error {
	f.sent = append(f.sent, recordedNotification{userID: userID, typ: typ})
	return nil
}

type fakePublisher struct {
	keys []string
}

func (f *fakePublisher) Publish(routingKey string, _ any) error {
	f.keys = append(f.keys, routingKey)
	return nil
}

type fixture struct {
	svc       *Service
	repo      *fakeBookingRepo
	notifier  *fakeNotifier
	publisher *fakePublisher
	listing   *listing.Listing
	guest     *user.User
	vendor    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	vendorID := uuid.New()
	l := &listing.Listing{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Category:  listing.CategoryMarriageGarden,
		Name:      "Grand Garden",
		City:      "Indore",
		PriceUnit: "per_event",
		BasePrice: sql.NullInt64{Int64: 50000, Valid: true},
		Status:    listing.StatusActive,
	}
	listingSvc := listing.NewService(
		&fakeListingRepo{listings: map[uuid.UUID]*listing.Listing{l.ID: l}},
		listing.NewCache(nil),
	)

	guest := &user.User{ID: uuid.New(), FullName: "Test Guest", Role: user.RoleGuest}
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{guest.ID: guest}}

	repo := newFakeBookingRepo()
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	svc := NewService(repo, listingSvc, users, notifier, publisher, ticket.NewGenerator("test-secret"))
	return &fixture{
		svc: svc, repo: repo, notifier: notifier, publisher: publisher,
		listing: l, guest: guest, vendor: vendorID,
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func (f *fixture) create(t *testing.T) *Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.guest.ID, CreateRequest{
		ListingID:  f.listing.ID.String(),
		EventDate:  futureDate(),
		GuestCount: 200,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return resp
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t)

	if resp.Status != "pending" {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	if resp.TotalPrice == nil || *resp.TotalPrice != 50000 {
		t.Errorf("expected total 50000, got %v", resp.TotalPrice)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].userID != f.vendor {
		t.Errorf("vendor was not notified: %+v", f.notifier.sent)
	}
	if len(f.publisher.keys) != 1 || f.publisher.keys[0] != "booking.pending" {
		t.Errorf("expected booking.pending event, got %v", f.publisher.keys)
	}
}

func TestCreatePerPlatePrice(t *testing.T) {
	f := newFixture(t)
	f.listing.PriceUnit = "per_plate"
	f.listing.BasePrice = sql.NullInt64{Int64: 500, Valid: true}

	resp := f.create(t)

	if resp.TotalPrice == nil || *resp.TotalPrice != 500*200 {
		t.Errorf("expected per-plate total 100000, got %v", resp.TotalPrice)
	}
}

func TestCreateConflict(t *testing.T) {
	f := newFixture(t)
	f.create(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateRequest{
		ListingID:  f.listing.ID.String(),
		EventDate:  futureDate(),
		GuestCount: 50,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestCreatePastDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.guest.ID, CreateRequest{
		ListingID:  f.listing.ID.String(),
		EventDate:  "2020-01-01",
		GuestCount: 10,
	})
	if !errors.Is(err, ErrPastEventDate) {
		t.Errorf("expected ErrPastEventDate, got %v", err)
	}
}

func TestCreateTodayAccepted(t *testing.T) {
	f := newFixture(t)

	// Today's local calendar date is a valid event date regardless of the
	// server timezone or the time of day.
	resp, err := f.svc.Create(context.Background(), f.guest.ID, CreateRequest{
		ListingID:  f.listing.ID.String(),
		EventDate:  time.Now().Format("2006-01-02"),
		GuestCount: 10,
	})
	if err != nil {
		t.Fatalf("booking for today rejected: %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("expected pending, got %s", resp.Status)
	}
}

func TestCreateInactiveListing(t *testing.T) {
	f := newFixture(t)
	f.listing.Status = listing.StatusPending

	_, err := f.svc.Create(context.Background(), f.guest.ID, CreateRequest{
		ListingID:  f.listing.ID.String(),
		EventDate:  futureDate(),
		GuestCount: 10,
	})
	if !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("expected listing.ErrNotFound for inactive listing, got %v", err)
	}
}

func TestConfirmFlow(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	ctx := context.Background()

	// Stranger vendor cannot confirm
	if _, err := f.svc.Confirm(ctx, uuid.New(), id, ""); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}

	confirmed, err := f.svc.Confirm(ctx, f.vendor, id, "see you there")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != "confirmed" {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}
	if confirmed.VendorNotes != "see you there" {
		t.Errorf("vendor notes lost: %q", confirmed.VendorNotes)
	}

	// Confirming twice is an illegal transition
	if _, err := f.svc.Confirm(ctx, f.vendor, id, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// Guest was notified, event published
	last := f.notifier.sent[len(f.notifier.sent)-1]
	if last.userID != f.guest.ID || last.typ != notification.TypeBookingConfirmed {
		t.Errorf("guest confirmation notification missing: %+v", last)
	}
	if f.publisher.keys[len(f.publisher.keys)-1] != "booking.confirmed" {
		t.Errorf("expected booking.confirmed event, got %v", f.publisher.keys)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	if _, err := f.svc.Reject(context.Background(), f.vendor, id, ""); !errors.Is(err, ErrReasonRequired) {
		t.Errorf("expected ErrReasonRequired, got %v", err)
	}

	rejected, err := f.svc.Reject(context.Background(), f.vendor, id, "double booked")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.RejectionReason != "double booked" {
		t.Errorf("rejection reason lost: %q", rejected.RejectionReason)
	}
}

func TestCancelTerminalFrozen(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	ctx := context.Background()

	if _, err := f.svc.Cancel(ctx, f.guest.ID, id); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// Cancelled is terminal: vendor cannot confirm it
	if _, err := f.svc.Confirm(ctx, f.vendor, id, ""); err == nil {
		t.Error("confirm succeeded on a cancelled booking")
	}
}

func TestCompleteBeforeEventDate(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, f.vendor, id, ""); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if _, err := f.svc.Complete(ctx, f.vendor, id); !errors.Is(err, ErrNotYetHeld) {
		t.Errorf("expected ErrNotYetHeld, got %v", err)
	}

	// Move the event into the past and complete
	f.repo.bookings[id].EventDate = time.Now().AddDate(0, 0, -1)
	completed, err := f.svc.Complete(ctx, f.vendor, id)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != "completed" {
		t.Errorf("expected completed, got %s", completed.Status)
	}
}

func TestTicketOnlyWhenConfirmed(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	ctx := context.Background()

	if _, err := f.svc.Ticket(ctx, f.guest.ID, id); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed for pending booking, got %v", err)
	}

	if _, err := f.svc.Confirm(ctx, f.vendor, id, ""); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	pdf, err := f.svc.Ticket(ctx, f.guest.ID, id)
	if err != nil {
		t.Fatalf("Ticket failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("empty PDF")
	}

	// Strangers get no ticket
	if _, err := f.svc.Ticket(ctx, uuid.New(), id); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}
