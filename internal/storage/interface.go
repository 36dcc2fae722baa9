package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for reading catalog image assets.
// Ingestion writes through its own pipeline; the search core only reads.
type ObjectStorage interface {
	// Download opens an object for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the URL for accessing an object.
	GetURL(key string) string

	// Delete deletes an object from storage.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists.
	Exists(ctx context.Context, key string) (bool, error)
}
