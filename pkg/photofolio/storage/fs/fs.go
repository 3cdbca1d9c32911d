package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// Backend is a filesystem implementation of the photofolio.BlobStore
// interface. Blobs live under BaseDir and are served by the HTTP file route,
// so public URLs are URLPrefix joined with the object key.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix for public blob URLs, e.g. "http://host/files"
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

// Upload writes the bytes to a file under BaseDir. The write goes to a
// temporary file first and is renamed into place so a crash never leaves a
// truncated blob behind the returned URL.
func (b *Backend) Upload(ctx context.Context, objectKey string, r io.Reader, opts photofolio.UploadOptions) (photofolio.StoredBlob, error) {
	filePath, err := b.pathFor(objectKey)
	if err != nil {
		return photofolio.StoredBlob{}, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return photofolio.StoredBlob{}, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return photofolio.StoredBlob{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return photofolio.StoredBlob{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return photofolio.StoredBlob{}, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return photofolio.StoredBlob{}, fmt.Errorf("failed to finalize file: %w", err)
	}

	return photofolio.StoredBlob{
		URL:    b.urlFor(objectKey),
		Handle: objectKey,
	}, nil
}

// Download opens the stored file for objectKey.
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.pathFor(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete unlinks the stored file. A file that is already absent is success.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.pathFor(objectKey)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Meta retrieves metadata for a stored file
func (b *Backend) Meta(ctx context.Context, objectKey string) (*photofolio.BlobMeta, error) {
	filePath, err := b.pathFor(objectKey)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &photofolio.BlobMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

func (b *Backend) urlFor(objectKey string) string {
	if b.urlPrefix == "" {
		return "/" + objectKey
	}
	return b.urlPrefix + "/" + objectKey
}

// pathFor resolves an object key inside BaseDir, rejecting keys that would
// escape it.
func (b *Backend) pathFor(objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	clean := filepath.Clean(filepath.FromSlash(objectKey))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return filepath.Join(b.baseDir, clean), nil
}
