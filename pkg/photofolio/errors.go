package photofolio

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrImageNotFound indicates no record exists for an image key
	ErrImageNotFound = errors.New("image not found")

	// ErrMissingFile indicates an upload request carried no file payload
	ErrMissingFile = errors.New("missing file")

	// ErrMissingImageKey indicates an upload request carried no image key
	ErrMissingImageKey = errors.New("missing image key")

	// ErrNotAnImage indicates the uploaded payload is not an image type
	ErrNotAnImage = errors.New("file is not an image")

	// ErrFileTooLarge indicates the uploaded payload exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidCredentials indicates a failed admin login attempt
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError represents a precondition failure detected before any
// storage side effect. It maps to HTTP 400.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a lookup miss for an image key. It maps to
// HTTP 404.
type NotFoundError struct {
	ImageKey string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("image %q not found: %v", e.ImageKey, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// StorageError represents a failed blob-store or metadata-store call. It maps
// to HTTP 500. Partial side effects may have occurred and are not rolled back.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
