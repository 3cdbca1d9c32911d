// Package flatfile implements photofolio.MetadataStore as an in-process map
// serialized to a single JSON file after every mutation. The on-disk layout
// is one JSON object keyed by imageKey. Snapshots are written to a temp file
// and renamed into place so a crash mid-write never truncates the store.
// The store is safe for concurrent use within one process but assumes a
// single writing process per file.
package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// Repository implements photofolio.MetadataStore backed by a flat JSON file
type Repository struct {
	mu      sync.Mutex
	path    string
	records map[string]*photofolio.ImageRecord
}

// New creates a flat-file repository backed by path. A missing file means an
// empty store; a present file is loaded eagerly so corruption surfaces at
// construction rather than on first request.
func New(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	r := &Repository{
		path:    path,
		records: make(map[string]*photofolio.ImageRecord),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) load() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &r.records); err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	return nil
}

// flush serializes the full mapping and atomically replaces the file.
// Callers must hold r.mu.
func (r *Repository) flush() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".images-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, imageKey string) (*photofolio.ImageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[imageKey]
	if !exists {
		return nil, photofolio.ErrImageNotFound
	}
	recordCopy := *record
	return &recordCopy, nil
}

func (r *Repository) Upsert(ctx context.Context, record *photofolio.ImageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recordCopy := *record
	prev, hadPrev := r.records[record.ImageKey]
	r.records[record.ImageKey] = &recordCopy

	if err := r.flush(); err != nil {
		// Keep the in-memory map consistent with the file on flush failure.
		if hadPrev {
			r.records[record.ImageKey] = prev
		} else {
			delete(r.records, record.ImageKey)
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, imageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.records[imageKey]
	if !exists {
		return photofolio.ErrImageNotFound
	}
	delete(r.records, imageKey)

	if err := r.flush(); err != nil {
		r.records[imageKey] = prev
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*photofolio.ImageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*photofolio.ImageRecord, 0, len(r.records))
	for _, record := range r.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})

	return result, nil
}
