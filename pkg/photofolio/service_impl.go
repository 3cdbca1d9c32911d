package photofolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arthousehq/photofolio/pkg/photofolio/objectkey"
)

// KeyGenerator produces the storage name for an uploaded blob.
type KeyGenerator interface {
	GenerateKey(imageKey, originalName string) string
}

// service implements the Service interface
type service struct {
	metadata       MetadataStore
	blobs          BlobStore
	keys           KeyGenerator
	maxUploadBytes int64
	logger         *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithMetadataStore sets the metadata store for the service
func WithMetadataStore(store MetadataStore) Option {
	return func(s *service) {
		s.metadata = store
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithKeyGenerator sets the object key generation strategy
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithMaxUploadBytes caps the accepted upload size. Zero disables the
// service-level check; the HTTP boundary enforces its own limit.
func WithMaxUploadBytes(n int64) Option {
	return func(s *service) {
		s.maxUploadBytes = n
	}
}

// WithLogger sets the logger used for operation context logging
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.metadata == nil {
		return nil, fmt.Errorf("metadata store is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.keys == nil {
		s.keys = objectkey.NewGenerator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// UploadImage validates the request, stores the blob, then upserts the
// metadata record. The blob write must complete before the metadata write
// begins so a visible record never references a blob that was not stored.
func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*ImageRecord, error) {
	if err := validateUpload(req, s.maxUploadBytes); err != nil {
		s.logger.Warn("upload rejected", "image_key", req.ImageKey, "error", err)
		return nil, err
	}

	objectKey := s.keys.GenerateKey(req.ImageKey, req.OriginalName)

	stored, err := s.blobs.Upload(ctx, objectKey, req.Reader, UploadOptions{
		MimeType:     req.MimeType,
		OriginalName: req.OriginalName,
	})
	if err != nil {
		s.logger.Error("blob upload failed", "image_key", req.ImageKey, "object_key", objectKey, "error", err)
		return nil, &StorageError{Key: objectKey, Op: "upload", Err: err}
	}

	record := &ImageRecord{
		ImageKey:      req.ImageKey,
		URL:           stored.URL,
		StorageHandle: stored.Handle,
		OriginalName:  req.OriginalName,
		SizeBytes:     req.SizeBytes,
		MimeType:      req.MimeType,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.metadata.Upsert(ctx, record); err != nil {
		// The blob is stored but the record is not: the blob is now
		// orphaned. Not retried, not rolled back.
		s.logger.Error("metadata upsert failed, stored blob orphaned",
			"image_key", req.ImageKey, "object_key", objectKey, "error", err)
		return nil, &StorageError{Key: req.ImageKey, Op: "upsert", Err: err}
	}

	s.logger.Info("image uploaded", "image_key", req.ImageKey, "object_key", objectKey, "size", req.SizeBytes)
	return record, nil
}

func validateUpload(req UploadImageRequest, maxBytes int64) error {
	if req.Reader == nil {
		return &ValidationError{Field: "file", Err: ErrMissingFile}
	}
	if req.ImageKey == "" {
		return &ValidationError{Field: "imageKey", Err: ErrMissingImageKey}
	}
	if !strings.HasPrefix(req.MimeType, "image/") {
		return &ValidationError{Field: "mimetype", Err: ErrNotAnImage}
	}
	if maxBytes > 0 && req.SizeBytes > maxBytes {
		return &ValidationError{Field: "file", Err: ErrFileTooLarge}
	}
	return nil
}

func (s *service) GetImage(ctx context.Context, imageKey string) (*ImageRecord, error) {
	record, err := s.metadata.Get(ctx, imageKey)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{ImageKey: imageKey, Err: err}
		}
		s.logger.Error("metadata get failed", "image_key", imageKey, "error", err)
		return nil, &StorageError{Key: imageKey, Op: "get", Err: err}
	}
	return record, nil
}

func (s *service) ListImages(ctx context.Context) ([]*ImageRecord, error) {
	records, err := s.metadata.List(ctx)
	if err != nil {
		s.logger.Error("metadata list failed", "error", err)
		return nil, &StorageError{Op: "list", Err: err}
	}
	if records == nil {
		records = []*ImageRecord{}
	}
	return records, nil
}

// DeleteImage looks up the record, deletes the blob via its handle, then
// removes the metadata record. An already-absent blob is treated as success;
// any other blob-store failure surfaces and leaves the record intact.
func (s *service) DeleteImage(ctx context.Context, imageKey string) error {
	record, err := s.metadata.Get(ctx, imageKey)
	if err != nil {
		if isNotFound(err) {
			return &NotFoundError{ImageKey: imageKey, Err: err}
		}
		s.logger.Error("metadata get failed", "image_key", imageKey, "error", err)
		return &StorageError{Key: imageKey, Op: "get", Err: err}
	}

	if handle := record.Handle(); handle != "" {
		if err := s.blobs.Delete(ctx, handle); err != nil {
			s.logger.Error("blob delete failed, record kept",
				"image_key", imageKey, "handle", handle, "error", err)
			return &StorageError{Key: handle, Op: "delete", Err: err}
		}
	} else {
		// No handle and none derivable from the URL: the record is removed
		// anyway, reported as success.
		s.logger.Warn("no storage handle for record, skipping blob delete", "image_key", imageKey)
	}

	if err := s.metadata.Delete(ctx, imageKey); err != nil {
		if isNotFound(err) {
			return &NotFoundError{ImageKey: imageKey, Err: err}
		}
		s.logger.Error("metadata delete failed", "image_key", imageKey, "error", err)
		return &StorageError{Key: imageKey, Op: "delete", Err: err}
	}

	s.logger.Info("image deleted", "image_key", imageKey)
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound)
}
