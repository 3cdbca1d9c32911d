package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// Repository implements photofolio.MetadataStore using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	records map[string]*photofolio.ImageRecord
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: make(map[string]*photofolio.ImageRecord),
	}
}

func (r *Repository) Get(ctx context.Context, imageKey string) (*photofolio.ImageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[imageKey]
	if !exists {
		return nil, photofolio.ErrImageNotFound
	}
	// Return a copy to prevent external modifications
	recordCopy := *record
	return &recordCopy, nil
}

func (r *Repository) Upsert(ctx context.Context, record *photofolio.ImageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recordCopy := *record
	r.records[record.ImageKey] = &recordCopy
	return nil
}

func (r *Repository) Delete(ctx context.Context, imageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[imageKey]; !exists {
		return photofolio.ErrImageNotFound
	}
	delete(r.records, imageKey)
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*photofolio.ImageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*photofolio.ImageRecord, 0, len(r.records))
	for _, record := range r.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	// Sort by uploaded_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})

	return result, nil
}
