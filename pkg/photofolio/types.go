package photofolio

import (
	"net/url"
	"path"
	"time"
)

// ImageRecord is the metadata record for one logical image slot. The
// caller-supplied ImageKey is the sole lookup key; the underlying blob's
// storage name is generated and opaque to callers.
type ImageRecord struct {
	ImageKey      string    `json:"imageKey"`
	URL           string    `json:"url"`
	StorageHandle string    `json:"publicId,omitempty"`
	OriginalName  string    `json:"originalName,omitempty"`
	SizeBytes     int64     `json:"size"`
	MimeType      string    `json:"mimetype"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// Handle returns the identifier used to delete the record's blob. It prefers
// the stored StorageHandle and falls back to the final path segment of the
// URL, which is how filesystem deployments derive it. An empty return means
// no blob can be addressed for this record.
func (r *ImageRecord) Handle() string {
	if r.StorageHandle != "" {
		return r.StorageHandle
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// StoredBlob is the result of persisting bytes in a BlobStore.
type StoredBlob struct {
	// URL is the publicly resolvable location of the blob.
	URL string
	// Handle is the opaque identifier used to delete the blob later.
	Handle string
}

// BlobMeta describes an object as reported by its BlobStore.
type BlobMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// UploadOptions carries descriptive metadata alongside the blob bytes.
type UploadOptions struct {
	MimeType     string
	OriginalName string
}

// ContactMessage is one contact-form submission handed to a Notifier.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"message"`
}
