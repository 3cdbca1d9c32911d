package photofolio

import "context"

// Service is the main interface for portfolio image operations. Upload and
// delete reconcile the blob store and the metadata store sequentially;
// get and list are read-only projections over the metadata store.
type Service interface {
	// UploadImage validates the request, stores the blob, then upserts the
	// metadata record keyed by ImageKey. A second upload with the same key
	// replaces the record's fields; the previous blob is not deleted.
	UploadImage(ctx context.Context, req UploadImageRequest) (*ImageRecord, error)

	// GetImage returns the record for imageKey.
	GetImage(ctx context.Context, imageKey string) (*ImageRecord, error)

	// ListImages returns all records, newest first where supported.
	ListImages(ctx context.Context) ([]*ImageRecord, error)

	// DeleteImage removes the blob (tolerating an already-absent blob) and
	// then the metadata record. A blob-store failure other than absence
	// leaves the record intact.
	DeleteImage(ctx context.Context, imageKey string) error
}
