package photofolio

import "io"

// UploadImageRequest contains parameters for uploading an image to a logical
// slot identified by ImageKey. OriginalName, MimeType and SizeBytes describe
// the inbound file as presented by the caller; they are captured into the
// record and never re-validated against the stored blob.
type UploadImageRequest struct {
	ImageKey     string
	Reader       io.Reader
	OriginalName string
	MimeType     string
	SizeBytes    int64
}
