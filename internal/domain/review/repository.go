package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines review data access interface
type Repository interface {
	// CreateWithRating inserts the review and recomputes the listing's
	// rating aggregate in one transaction. Returns the new average/count.
	CreateWithRating(ctx context.Context, rev *Review) (avg float64, count int, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ListByListing(ctx context.Context, listingID uuid.UUID, limit, offset int) ([]*Review, int, error)
	Summarize(ctx context.Context, listingID uuid.UUID) (*Summary, error)
	// DeleteWithRating removes the review and recomputes the aggregate
	// in one transaction.
	DeleteWithRating(ctx context.Context, rev *Review) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithRating(ctx context.Context, rev *Review) (float64, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO reviews (id, listing_id, author_id, author_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, insert,
		rev.ID, rev.ListingID, rev.AuthorID, rev.AuthorName, rev.Rating, rev.Comment, rev.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, 0, fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return 0, 0, err
	}

	avg, count, err := recomputeRating(ctx, tx, rev.ListingID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	query := `
		SELECT id, listing_id, author_id, author_name, rating, comment, created_at
		FROM reviews WHERE id = $1
	`

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

func (r *repository) ListByListing(ctx context.Context, listingID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE listing_id = $1`, listingID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, listing_id, author_id, author_name, rating, comment, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var reviews []*Review
	if err := r.db.SelectContext(ctx, &reviews, query, listingID, limit, offset); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *repository) Summarize(ctx context.Context, listingID uuid.UUID) (*Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE listing_id = $1 GROUP BY rating`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &Summary{Distribution: make(map[int]int)}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		summary.Distribution[rating] = count
		summary.Count += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summary.Count > 0 {
		summary.Average = float64(sum) / float64(summary.Count)
	}
	return summary, nil
}

func (r *repository) DeleteWithRating(ctx context.Context, rev *Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, rev.ID); err != nil {
		return err
	}

	if _, _, err := recomputeRating(ctx, tx, rev.ListingID); err != nil {
		return err
	}

	return tx.Commit()
}

// recomputeRating updates the listing aggregate from the reviews table
// inside the caller's transaction
func recomputeRating(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE listing_id = $1`,
		listingID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE listings SET rating_avg = $2, rating_count = $3, updated_at = NOW() WHERE id = $1`,
		listingID, avg, count,
	)
	if err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
