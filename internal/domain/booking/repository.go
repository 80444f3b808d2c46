package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines booking data access interface
type Repository interface {
	// Create inserts the booking after verifying no non-terminal booking
	// holds the same listing/date. The partial unique index is the
	// backstop under concurrent inserts.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, status Status, limit, offset int) ([]*Booking, int, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, status Status, limit, offset int) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, b *Booking) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db *sqlx.DB
}

const bookingColumns = `
	id, listing_id, guest_id, vendor_id, listing_name, category, city,
	event_date, event_time, guest_count, status,
	vendor_notes, rejection_reason, total_price, created_at, updated_at
`

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1 AND event_date = $2
			  AND status IN ('pending', 'confirmed')
		)
	`, b.ListingID, b.EventDate).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}

	insert := `
		INSERT INTO bookings (
			id, listing_id, guest_id, vendor_id, listing_name, category, city,
			event_date, event_time, guest_count, status,
			vendor_notes, rejection_reason, total_price, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16
		)
	`
	_, err = tx.ExecContext(ctx, insert,
		b.ID, b.ListingID, b.GuestID, b.VendorID, b.ListingName, b.Category, b.City,
		b.EventDate, b.EventTime, b.GuestCount, b.Status,
		b.VendorNotes, b.RejectionReason, b.TotalPrice, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return err
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByGuest(ctx context.Context, guestID uuid.UUID, status Status, limit, offset int) ([]*Booking, int, error) {
	return r.list(ctx, "guest_id", guestID, status, limit, offset)
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, status Status, limit, offset int) ([]*Booking, int, error) {
	return r.list(ctx, "vendor_id", vendorID, status, limit, offset)
}

func (r *repository) list(ctx context.Context, column string, id uuid.UUID, status Status, limit, offset int) ([]*Booking, int, error) {
	where := fmt.Sprintf("WHERE %s = $1", column)
	args := []interface{}{id}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM bookings "+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			status = $2, vendor_notes = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Status, b.VendorNotes, b.RejectionReason, time.Now())
	return err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
