package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio"
	"github.com/arthousehq/photofolio/pkg/photofolio/auth"
)

// uploadFileField is the multipart field carrying the image bytes
const uploadFileField = "image"

// ImagesHandler handles image upload and management API endpoints
type ImagesHandler struct {
	service        photofolio.Service
	admin          *auth.Admin // nil disables auth on mutating routes
	maxUploadBytes int64
}

// NewImagesHandler creates a new images handler. A nil admin leaves the
// mutating routes unauthenticated (development deployments).
func NewImagesHandler(service photofolio.Service, admin *auth.Admin, maxUploadBytes int64) *ImagesHandler {
	return &ImagesHandler{
		service:        service,
		admin:          admin,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the router for image endpoints
func (h *ImagesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListImages)
	r.Get("/{imageKey}", h.GetImage)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.admin))
		r.Post("/", h.UploadImage)
		r.Delete("/{imageKey}", h.DeleteImage)
	})

	return r
}

// UploadImageResponse is the response body for a successful upload
type UploadImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	ImageKey string `json:"imageKey"`
	PublicID string `json:"publicId,omitempty"`
}

// ImageResponse is the response body for one image record
type ImageResponse struct {
	URL          string    `json:"url"`
	PublicID     string    `json:"publicId,omitempty"`
	OriginalName string    `json:"originalName,omitempty"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// DeleteImageResponse is the response body for a successful delete
type DeleteImageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toImageResponse(record *photofolio.ImageRecord) ImageResponse {
	return ImageResponse{
		URL:          record.URL,
		PublicID:     record.StorageHandle,
		OriginalName: record.OriginalName,
		Size:         record.SizeBytes,
		MimeType:     record.MimeType,
		UploadedAt:   record.UploadedAt,
	}
}

// UploadImage accepts a multipart form with an "image" file field and an
// "imageKey" form field, and reconciles the blob and metadata stores.
func (h *ImagesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.Warn("upload over size limit", "limit", h.maxUploadBytes)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: photofolio.ErrFileTooLarge.Error()})
			return
		}
		slog.Warn("failed to parse multipart form", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: photofolio.ErrMissingFile.Error()})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	imageKey := r.FormValue("imageKey")
	if imageKey == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: photofolio.ErrMissingImageKey.Error()})
		return
	}

	file, header, err := r.FormFile(uploadFileField)
	if err != nil {
		slog.Warn("upload without file field", "image_key", imageKey, "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: photofolio.ErrMissingFile.Error()})
		return
	}
	defer file.Close()

	mimeType, reader, err := detectMimeType(file, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("failed to read upload", "image_key", imageKey, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
		return
	}

	record, err := h.service.UploadImage(r.Context(), photofolio.UploadImageRequest{
		ImageKey:     imageKey,
		Reader:       reader,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		SizeBytes:    header.Size,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, UploadImageResponse{
		Success:  true,
		ImageURL: record.URL,
		ImageKey: record.ImageKey,
		PublicID: record.StorageHandle,
	})
}

// detectMimeType prefers the client-declared content type and falls back to
// sniffing the first bytes. The consumed bytes are stitched back onto the
// returned reader.
func detectMimeType(file io.Reader, declared string) (string, io.Reader, error) {
	if declared != "" && declared != "application/octet-stream" {
		return declared, file, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), file), nil
}

// ListImages returns all records as a JSON object keyed by imageKey
func (h *ImagesHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListImages(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make(map[string]ImageResponse, len(records))
	for _, record := range records {
		response[record.ImageKey] = toImageResponse(record)
	}
	render.JSON(w, r, response)
}

// GetImage returns the record for one image key
func (h *ImagesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	imageKey := chi.URLParam(r, "imageKey")

	record, err := h.service.GetImage(r.Context(), imageKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, toImageResponse(record))
}

// DeleteImage removes the blob and the metadata record for one image key
func (h *ImagesHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageKey := chi.URLParam(r, "imageKey")

	if err := h.service.DeleteImage(r.Context(), imageKey); err != nil {
		writeServiceError(w, r, err)
		return
	}
	render.JSON(w, r, DeleteImageResponse{
		Success: true,
		Message: "Image " + strings.TrimSpace(imageKey) + " deleted",
	})
}
