package photo

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ProcessStatus tracks worker progress on an uploaded photo
type ProcessStatus string

const (
	StatusPending    ProcessStatus = "pending"
	StatusProcessing ProcessStatus = "processing"
	StatusDone       ProcessStatus = "done"
	StatusFailed     ProcessStatus = "failed"
)

// MaxAttempts before a photo is marked failed for good
const MaxAttempts = 3

// Photo represents a listing photo (metadata only, file in object storage)
type Photo struct {
	ID        uuid.UUID      `db:"id"`
	ListingID uuid.UUID      `db:"listing_id"`
	Key       string         `db:"key"`
	ThumbKey  sql.NullString `db:"thumb_key"`
	MimeType  string         `db:"mime_type"`
	SizeBytes int64          `db:"size_bytes"`
	Status    ProcessStatus  `db:"status"`
	Attempts  int            `db:"attempts"`
	LastError sql.NullString `db:"last_error"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
