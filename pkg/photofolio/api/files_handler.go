package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// FilesHandler serves blob bytes for deployments whose storage backend has
// no public URL of its own (filesystem, memory).
type FilesHandler struct {
	blobs photofolio.BlobStore
}

// NewFilesHandler creates a new file-serving handler
func NewFilesHandler(blobs photofolio.BlobStore) *FilesHandler {
	return &FilesHandler{blobs: blobs}
}

// Routes returns the router for blob serving
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.ServeBlob)
	return r
}

// ServeBlob streams one stored object. The object key is the remainder of
// the request path.
func (h *FilesHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")

	meta, err := h.blobs.Meta(r.Context(), objectKey)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Image not found"})
		return
	}

	rc, err := h.blobs.Download(r.Context(), objectKey)
	if err != nil {
		slog.Error("blob download failed", "object_key", objectKey, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
		return
	}
	defer rc.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("blob write interrupted", "object_key", objectKey, "error", err)
	}
}
