package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// Backend is an in-memory implementation of the photofolio.BlobStore
// interface, intended for tests and development.
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	mimeTypes map[string]string
	updatedAt map[string]time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:   make(map[string][]byte),
		mimeTypes: make(map[string]string),
		updatedAt: make(map[string]time.Time),
	}
}

// Upload stores the bytes under objectKey.
func (b *Backend) Upload(ctx context.Context, objectKey string, r io.Reader, opts photofolio.UploadOptions) (photofolio.StoredBlob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return photofolio.StoredBlob{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	if opts.MimeType != "" {
		b.mimeTypes[objectKey] = opts.MimeType
	} else {
		b.mimeTypes[objectKey] = "application/octet-stream"
	}
	b.updatedAt[objectKey] = time.Now().UTC()

	return photofolio.StoredBlob{
		URL:    "memory://" + objectKey,
		Handle: objectKey,
	}, nil
}

// Download returns the stored bytes for objectKey.
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob for objectKey. A missing blob is not an error.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, objectKey)
	delete(b.mimeTypes, objectKey)
	delete(b.updatedAt, objectKey)
	return nil
}

// Meta retrieves metadata for an object in memory
func (b *Backend) Meta(ctx context.Context, objectKey string) (*photofolio.BlobMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return &photofolio.BlobMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.mimeTypes[objectKey],
		UpdatedAt:   b.updatedAt[objectKey],
	}, nil
}
