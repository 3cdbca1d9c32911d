package photofolio

import (
	"context"
	"io"
)

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// Upload stores the bytes read from r under objectKey and returns the
	// blob's public URL and deletion handle.
	Upload(ctx context.Context, objectKey string, r io.Reader, opts UploadOptions) (StoredBlob, error)

	// Download returns the stored bytes for objectKey.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the blob for objectKey. A blob that is already absent
	// is not an error.
	Delete(ctx context.Context, objectKey string) error

	// Meta retrieves storage-level metadata for objectKey.
	Meta(ctx context.Context, objectKey string) (*BlobMeta, error)
}

// MetadataStore defines the interface for keyed image-record persistence.
// Implementations enforce at most one record per image key.
type MetadataStore interface {
	// Get returns the record for imageKey, or ErrImageNotFound.
	Get(ctx context.Context, imageKey string) (*ImageRecord, error)

	// Upsert inserts the record, or replaces all fields of an existing
	// record with the same ImageKey.
	Upsert(ctx context.Context, record *ImageRecord) error

	// Delete removes the record for imageKey, or returns ErrImageNotFound.
	Delete(ctx context.Context, imageKey string) error

	// List returns all records, ordered by descending UploadedAt where the
	// backend supports ordering. An empty store yields an empty slice.
	List(ctx context.Context) ([]*ImageRecord, error)
}

// Notifier delivers contact-form messages. Email rendering and transport are
// external collaborators behind this interface.
type Notifier interface {
	ContactMessage(ctx context.Context, msg ContactMessage) error
}
