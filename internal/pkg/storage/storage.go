package storage

import (
	"context"
	"io"
)

// Storage is the interface listing photo storage backends implement.
type Storage interface {
	// Put stores a file under the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a file by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a key
	GetURL(key string) string
}

// Config holds storage backend configuration
type Config struct {
	Driver    string // "s3" or "local"
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	LocalDir  string
	LocalURL  string
}

// New creates a storage backend from config
func New(cfg Config) (Storage, error) {
	if cfg.Driver == "s3" {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
}
