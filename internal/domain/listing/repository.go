package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Filter represents SQL-level listing filters (moderation/ownership level;
// collection criteria are applied in memory by the service)
type Filter struct {
	Category Category
	Status   Status
	VendorID uuid.UUID
	City     string
	Limit    int
	Offset   int
}

// Repository defines listing data access interface
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter) ([]*Listing, int, error)
	ListActiveByCategory(ctx context.Context, category Category) ([]*Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db *sqlx.DB
}

const listingColumns = `
	id, vendor_id, category, name, description, city, area, address, pincode,
	price_unit, base_price, capacity_min, capacity_max,
	main_image, gallery, amenities, features, packages, details,
	rating_avg, rating_count, status, created_at, updated_at
`

// NewRepository creates new listing repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (
			id, vendor_id, category, name, description, city, area, address, pincode,
			price_unit, base_price, capacity_min, capacity_max,
			main_image, gallery, amenities, features, packages, details,
			rating_avg, rating_count, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.VendorID, l.Category, l.Name, l.Description, l.City, l.Area, l.Address, l.Pincode,
		l.PriceUnit, l.BasePrice, l.CapacityMin, l.CapacityMax,
		l.MainImage, l.Gallery, l.Amenities, l.Features, l.Packages, l.Details,
		l.RatingAvg, l.RatingCount, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND status != 'deleted'`

	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings SET
			name = $2, description = $3, city = $4, area = $5, address = $6,
			pincode = $7, price_unit = $8, base_price = $9,
			capacity_min = $10, capacity_max = $11,
			main_image = $12, gallery = $13, amenities = $14, features = $15,
			packages = $16, details = $17, status = $18, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Description, l.City, l.Area, l.Address,
		l.Pincode, l.PriceUnit, l.BasePrice,
		l.CapacityMin, l.CapacityMax,
		l.MainImage, l.Gallery, l.Amenities, l.Features,
		l.Packages, l.Details, l.Status,
	)
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET status = 'deleted', updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Listing, int, error) {
	conditions := []string{"status != 'deleted'"}
	args := []interface{}{}
	argPos := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.VendorID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argPos))
		args = append(args, filter.VendorID)
		argPos++
	}
	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", argPos))
		args = append(args, filter.City)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, listingColumns, where, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) ListActiveByCategory(ctx context.Context, category Category) ([]*Listing, error) {
	query := `
		SELECT ` + listingColumns + ` FROM listings
		WHERE category = $1 AND status = 'active'
		ORDER BY rating_avg DESC, created_at DESC
	`

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, category); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
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
