package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photo data access
type Repository interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]*Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ClaimNextPending atomically claims one photo for processing: the
	// oldest pending row, or a processing row whose claim went stale.
	// Returns (nil, nil) when the queue is empty.
	ClaimNextPending(ctx context.Context) (*Photo, error)
	MarkDone(ctx context.Context, id uuid.UUID, thumbKey string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates PostgreSQL photo repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const photoSelectColumns = `
	id, listing_id, key, thumb_key, mime_type, size_bytes,
	status, attempts, last_error, created_at, updated_at
`

func (r *postgresRepository) Create(ctx context.Context, p *Photo) error {
	query := `
		INSERT INTO photos (
			id, listing_id, key, mime_type, size_bytes,
			status, attempts, created_at, updated_at
		) VALUES (
			:id, :listing_id, :key, :mime_type, :size_bytes,
			:status, :attempts, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	var p Photo
	query := `SELECT ` + photoSelectColumns + ` FROM photos WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*Photo, error) {
	var photos []*Photo
	query := `SELECT ` + photoSelectColumns + ` FROM photos WHERE listing_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &photos, query, listingID); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// StaleClaimAfter is how long a photo may sit in processing before it is
// treated as abandoned by a crashed worker and becomes claimable again.
const StaleClaimAfter = 10 * time.Minute

// ClaimNextPending uses SKIP LOCKED so multiple workers never grab the
// same row. Claiming bumps the attempt counter up front. Processing rows
// whose claim went stale are reclaimed alongside pending ones.
func (r *postgresRepository) ClaimNextPending(ctx context.Context) (*Photo, error) {
	var p Photo
	query := `
		UPDATE photos
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM photos
			WHERE (status = 'pending' OR (status = 'processing' AND updated_at < $2))
			  AND attempts < $1
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + photoSelectColumns

	err := r.db.GetContext(ctx, &p, query, MaxAttempts, time.Now().Add(-StaleClaimAfter))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim photo: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) MarkDone(ctx context.Context, id uuid.UUID, thumbKey string) error {
	query := `
		UPDATE photos
		SET status = 'done', thumb_key = $2, last_error = NULL, updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, thumbKey); err != nil {
		return fmt.Errorf("failed to mark photo done: %w", err)
	}
	return nil
}

// MarkFailed returns the photo to the queue until attempts run out,
// then parks it as failed.
func (r *postgresRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE photos
		SET status = CASE WHEN attempts >= $3 THEN 'failed' ELSE 'pending' END,
		    last_error = $2, updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, reason, MaxAttempts); err != nil {
		return fmt.Errorf("failed to mark photo failed: %w", err)
	}
	return nil
}
